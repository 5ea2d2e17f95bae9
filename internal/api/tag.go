package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/service"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListTags returns the caller's tags, optionally restricted to tags
// assigned to at least one recipe.
func (h *TagHandler) ListTags(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	assignedOnly := c.Query("assigned_only") == "1" || c.Query("assigned_only") == "true"
	tags, err := h.tagService.List(c.Request.Context(), userID, assignedOnly)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// CreateTag creates a tag owned by the caller.
func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// DeleteTag removes the caller's tag.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tagService.Delete(c.Request.Context(), userID, id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
