package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
	"github.com/recipebox/backend/internal/storage"
)

// setupTestRouter builds a router backed by an in-memory sqlite database
// and a temp-dir image store.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	))

	authService := service.NewAuthService(db, "test-secret")
	imageService := service.NewImageService(db, storage.NewLocalStore(t.TempDir()))

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	userHandler := NewUserHandler(authService)
	tagHandler := NewTagHandler(service.NewTagService(db))
	ingredientHandler := NewIngredientHandler(service.NewIngredientService(db))
	recipeHandler := NewRecipeHandler(service.NewRecipeService(db), imageService)

	v1 := router.Group("/api/v1")
	user := v1.Group("/user")
	user.POST("/create", userHandler.Register)
	user.POST("/token", userHandler.Token)

	me := user.Group("/me")
	me.Use(middleware.AuthMiddleware(authService))
	me.GET("", userHandler.Me)
	me.PATCH("", userHandler.UpdateMe)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))

	tags := protected.Group("/tags")
	tags.GET("", tagHandler.ListTags)
	tags.POST("", tagHandler.CreateTag)
	tags.DELETE("/:id", tagHandler.DeleteTag)

	ingredients := protected.Group("/ingredients")
	ingredients.GET("", ingredientHandler.ListIngredients)
	ingredients.POST("", ingredientHandler.CreateIngredient)
	ingredients.DELETE("/:id", ingredientHandler.DeleteIngredient)

	recipes := protected.Group("/recipes")
	recipes.GET("", recipeHandler.ListRecipes)
	recipes.POST("", recipeHandler.CreateRecipe)
	recipes.GET("/:id", recipeHandler.GetRecipe)
	recipes.PUT("/:id", recipeHandler.UpdateRecipe)
	recipes.PATCH("/:id", recipeHandler.PatchRecipe)
	recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
	recipes.POST("/:id/upload-image", recipeHandler.UploadImage)

	return router, db
}

// createUserAndToken registers a user through the service layer and returns
// the account plus a valid bearer token.
func createUserAndToken(t *testing.T, db *gorm.DB, email string) (*models.User, string) {
	authService := service.NewAuthService(db, "test-secret")
	user, err := authService.Register(context.Background(), "Test User", email, "Testpass123")
	require.NoError(t, err)
	token, err := authService.Login(context.Background(), email, "Testpass123")
	require.NoError(t, err)
	return user, token
}

// doJSON performs a JSON request against the router.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// doUpload performs a multipart upload of an "image" form file.
func doUpload(t *testing.T, router *gin.Engine, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
