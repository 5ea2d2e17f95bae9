package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// RecipeService handles owner-scoped recipe operations
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeInput carries the writable recipe fields. Tag and ingredient ids
// must resolve within the caller's own attributes.
type RecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         float64
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipePatch carries a partial update; nil fields are left unchanged.
type RecipePatch struct {
	Title         *string
	TimeMinutes   *int
	Price         *float64
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// RecipeFilter restricts List to recipes whose tag or ingredient set
// intersects the given id sets.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// List returns the caller's recipes ordered by id descending, optionally
// filtered. Matches across multiple join rows are deduplicated.
func (s *RecipeService) List(ctx context.Context, userID uint, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("recipes.user_id = ?", userID)

	if len(filter.TagIDs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filter.TagIDs)
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.
			Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filter.IngredientIDs)
	}

	var recipes []models.Recipe
	err := query.
		Distinct("recipes.*").
		Preload("Tags").
		Preload("Ingredients").
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get returns the caller's recipe with its tags and ingredients. The
// ownership predicate is applied before the id lookup, so another owner's
// recipe is a not-found.
func (s *RecipeService) Get(ctx context.Context, userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", userID).
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Create persists a new recipe owned by the caller.
func (s *RecipeService) Create(ctx context.Context, userID uint, in RecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	tags, err := s.resolveTags(ctx, userID, in.TagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, userID, in.IngredientIDs)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Title:       in.Title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		UserID:      userID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Ingredients").Replace(ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, recipe.ID)
}

// Update replaces all writable fields and associations of the caller's
// recipe.
func (s *RecipeService) Update(ctx context.Context, userID, id uint, in RecipeInput) (*models.Recipe, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, userID, in.TagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(ctx, userID, in.IngredientIDs)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":        in.Title,
			"time_minutes": in.TimeMinutes,
			"price":        in.Price,
		}
		if err := tx.Model(recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return tx.Model(recipe).Association("Ingredients").Replace(ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

// Patch applies a partial update to the caller's recipe.
func (s *RecipeService) Patch(ctx context.Context, userID, id uint, patch RecipePatch) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = *patch.Title
	}
	if patch.TimeMinutes != nil {
		updates["time_minutes"] = *patch.TimeMinutes
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}

	var tags []models.Tag
	if patch.TagIDs != nil {
		if tags, err = s.resolveTags(ctx, userID, *patch.TagIDs); err != nil {
			return nil, err
		}
	}
	var ingredients []models.Ingredient
	if patch.IngredientIDs != nil {
		if ingredients, err = s.resolveIngredients(ctx, userID, *patch.IngredientIDs); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Updates(updates).Error; err != nil {
				return err
			}
		}
		if patch.TagIDs != nil {
			if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if patch.IngredientIDs != nil {
			if err := tx.Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

// Delete removes the caller's recipe and its join rows.
func (s *RecipeService) Delete(ctx context.Context, userID, id uint) error {
	recipe, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, recipe.ID).Error
	})
}

// resolveTags loads the caller's tags for the given id set. An id that does
// not resolve within the caller's own tags is a validation error.
func (s *RecipeService) resolveTags(ctx context.Context, userID uint, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(ids)) {
		return nil, ErrUnknownAttribute
	}
	return tags, nil
}

func (s *RecipeService) resolveIngredients(ctx context.Context, userID uint, ids []uint) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	if len(ingredients) != len(uniqueIDs(ids)) {
		return nil, ErrUnknownAttribute
	}
	return ingredients, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
