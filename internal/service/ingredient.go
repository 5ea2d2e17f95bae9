package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// IngredientService handles owner-scoped ingredient operations
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List returns the caller's ingredients ordered by name descending. With
// assignedOnly set, only ingredients referenced by at least one of the
// caller's recipes are returned.
func (s *IngredientService) List(ctx context.Context, userID uint, assignedOnly bool) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("ingredients.user_id = ?", userID)

	if assignedOnly {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
			Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id AND recipes.user_id = ?", userID).
			Distinct("ingredients.*")
	}

	var ingredients []models.Ingredient
	if err := query.Order("ingredients.name DESC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Create persists a new ingredient owned by the caller.
func (s *IngredientService) Create(ctx context.Context, userID uint, name string) (*models.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	ingredient := models.Ingredient{Name: name, UserID: userID}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// Delete removes the caller's ingredient along with its recipe associations.
func (s *IngredientService) Delete(ctx context.Context, userID, id uint) error {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", ingredient.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&ingredient).Error
	})
}
