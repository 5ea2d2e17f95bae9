package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/service"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	imageService  *service.ImageService
}

func NewRecipeHandler(recipeService *service.RecipeService, imageService *service.ImageService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageService:  imageService,
	}
}

type RecipeRequest struct {
	Title         string  `json:"title" binding:"required"`
	TimeMinutes   int     `json:"time_minutes"`
	Price         float64 `json:"price"`
	TagIDs        []uint  `json:"tags"`
	IngredientIDs []uint  `json:"ingredients"`
}

type RecipePatchRequest struct {
	Title         *string  `json:"title"`
	TimeMinutes   *int     `json:"time_minutes"`
	Price         *float64 `json:"price"`
	TagIDs        *[]uint  `json:"tags"`
	IngredientIDs *[]uint  `json:"ingredients"`
}

// ListRecipes returns the caller's recipes, optionally filtered by
// comma-separated tag and ingredient id sets.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tags filter"})
		return
	}
	ingredientIDs, err := parseIDList(c.Query("ingredients"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredients filter"})
		return
	}

	recipes, err := h.recipeService.List(c.Request.Context(), userID, service.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// GetRecipe returns one of the caller's recipes with its tags and
// ingredients.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe creates a recipe owned by the caller.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), userID, service.RecipeInput{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		TagIDs:        req.TagIDs,
		IngredientIDs: req.IngredientIDs,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe replaces all writable fields of the caller's recipe.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), userID, id, service.RecipeInput{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		TagIDs:        req.TagIDs,
		IngredientIDs: req.IngredientIDs,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// PatchRecipe applies a partial update to the caller's recipe.
func (h *RecipeHandler) PatchRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecipePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipeService.Patch(c.Request.Context(), userID, id, service.RecipePatch{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		TagIDs:        req.TagIDs,
		IngredientIDs: req.IngredientIDs,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes the caller's recipe.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), userID, id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage attaches an uploaded image file to the caller's recipe,
// replacing any prior image.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer func() { _ = file.Close() }()

	recipe, err := h.imageService.AttachImage(c.Request.Context(), userID, id, fileHeader.Filename, file)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	url, err := h.imageService.ImageURL(c.Request.Context(), recipe.ImagePath)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    recipe.ID,
		"image": url,
	})
}
