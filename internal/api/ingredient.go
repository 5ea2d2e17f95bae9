package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/service"
)

type IngredientHandler struct {
	ingredientService *service.IngredientService
}

func NewIngredientHandler(ingredientService *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

type CreateIngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListIngredients returns the caller's ingredients, optionally restricted
// to ingredients assigned to at least one recipe.
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	assignedOnly := c.Query("assigned_only") == "1" || c.Query("assigned_only") == "true"
	ingredients, err := h.ingredientService.List(c.Request.Context(), userID, assignedOnly)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ingredients)
}

// CreateIngredient creates an ingredient owned by the caller.
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingredient, err := h.ingredientService.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ingredient)
}

// DeleteIngredient removes the caller's ingredient.
func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ingredientService.Delete(c.Request.Context(), userID, id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
