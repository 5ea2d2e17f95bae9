package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
)

// writeServiceError maps service-layer errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrUnknownAttribute),
		errors.Is(err, service.ErrNotAnImage),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, models.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// parseIDList parses a comma-separated id set query value, e.g. "1,3".
func parseIDList(s string) ([]uint, error) {
	if s == "" {
		return nil, nil
	}
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
