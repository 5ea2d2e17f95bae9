package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// TagService handles owner-scoped tag operations
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns the caller's tags ordered by name descending. With
// assignedOnly set, only tags referenced by at least one of the caller's
// recipes are returned.
func (s *TagService) List(ctx context.Context, userID uint, assignedOnly bool) ([]models.Tag, error) {
	query := s.db.WithContext(ctx).Model(&models.Tag{}).Where("tags.user_id = ?", userID)

	if assignedOnly {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
			Joins("JOIN recipes ON recipes.id = recipe_tags.recipe_id AND recipes.user_id = ?", userID).
			Distinct("tags.*")
	}

	var tags []models.Tag
	if err := query.Order("tags.name DESC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Create persists a new tag owned by the caller.
func (s *TagService) Create(ctx context.Context, userID uint, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	tag := models.Tag{Name: name, UserID: userID}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes the caller's tag along with its recipe associations.
func (s *TagService) Delete(ctx context.Context, userID, id uint) error {
	var tag models.Tag
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
