package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/backend/internal/service"
)

func TestListIngredientsRequiresAuth(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/ingredients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListIngredientsLimitedToUser(t *testing.T) {
	router, db := setupTestRouter(t)
	user, token := createUserAndToken(t, db, "sample@gmail.com")
	other, _ := createUserAndToken(t, db, "another@gmail.com")
	ctx := context.Background()

	ingredientService := service.NewIngredientService(db)
	_, err := ingredientService.Create(ctx, other.ID, "Vinegar")
	require.NoError(t, err)
	_, err = ingredientService.Create(ctx, user.ID, "Kale")
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/v1/ingredients", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	ingredients := decodeList(t, w)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Kale", ingredients[0]["name"])
}

func TestCreateIngredientInvalidPayload(t *testing.T) {
	router, db := setupTestRouter(t)
	_, token := createUserAndToken(t, db, "sample@gmail.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/ingredients", token, map[string]interface{}{
		"name": "",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIngredientsAssignedOnly(t *testing.T) {
	router, db := setupTestRouter(t)
	user, token := createUserAndToken(t, db, "sample@gmail.com")
	ctx := context.Background()

	ingredientService := service.NewIngredientService(db)
	used, err := ingredientService.Create(ctx, user.ID, "Eggs")
	require.NoError(t, err)
	_, err = ingredientService.Create(ctx, user.ID, "Flour")
	require.NoError(t, err)

	recipeService := service.NewRecipeService(db)
	_, err = recipeService.Create(ctx, user.ID, service.RecipeInput{
		Title:         "Omelette",
		TimeMinutes:   5,
		IngredientIDs: []uint{used.ID},
	})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/v1/ingredients?assigned_only=1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	ingredients := decodeList(t, w)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Eggs", ingredients[0]["name"])
}
