package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipebox/backend/internal/api"
	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/router"
	"github.com/recipebox/backend/internal/service"
	"github.com/recipebox/backend/internal/storage"
)

// setupPostgres starts a disposable PostgreSQL container and returns a
// migrated gorm handle. Tests are skipped when Docker is unavailable.
func setupPostgres(t *testing.T) *gorm.DB {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postpass",
				"POSTGRES_DB":       "recipebox_test",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections"),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=postgres password=postpass dbname=recipebox_test sslmode=disable",
		host, mappedPort.Port())

	var db *gorm.DB
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return db
}

func setupTestServer(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(db, "integration-secret")
	imageService := service.NewImageService(db, storage.NewLocalStore(t.TempDir()))

	return router.SetupRouter(
		api.NewUserHandler(authService),
		api.NewTagHandler(service.NewTagService(db)),
		api.NewIngredientHandler(service.NewIngredientService(db)),
		api.NewRecipeHandler(service.NewRecipeService(db), imageService),
		authService,
		nil,
		nil,
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRecipeLifecycle(t *testing.T) {
	db := setupPostgres(t)
	r := setupTestServer(t, db)

	// Register and obtain a token.
	w := doJSON(t, r, http.MethodPost, "/api/v1/user/create", "", gin.H{
		"email":    "cook@Example.COM",
		"password": "Testpass123",
		"name":     "Cook",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "cook@example.com", decode(t, w)["email"])

	w = doJSON(t, r, http.MethodPost, "/api/v1/user/token", "", gin.H{
		"email":    "cook@example.com",
		"password": "Testpass123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// Attributes.
	w = doJSON(t, r, http.MethodPost, "/api/v1/tags", token, gin.H{"name": "Dessert"})
	require.Equal(t, http.StatusCreated, w.Code)
	tagID := decode(t, w)["id"].(float64)

	w = doJSON(t, r, http.MethodPost, "/api/v1/ingredients", token, gin.H{"name": "Sugar"})
	require.Equal(t, http.StatusCreated, w.Code)
	ingredientID := decode(t, w)["id"].(float64)

	// Recipe with associations.
	w = doJSON(t, r, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"title":        "Chocolate cake",
		"time_minutes": 45,
		"price":        12.50,
		"tags":         []float64{tagID},
		"ingredients":  []float64{ingredientID},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := decode(t, w)["id"].(float64)

	// Filtered list.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/recipes?tags=%d", int(tagID)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recipes []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	require.Len(t, recipes, 1)
	assert.Equal(t, "Chocolate cake", recipes[0]["title"])

	// Partial update.
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/recipes/%d", int(recipeID)), token, gin.H{
		"time_minutes": 60,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(60), decode(t, w)["time_minutes"])

	// Image upload.
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, image.NewRGBA(image.Rect(0, 0, 8, 8))))

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	fw, err := mw.CreateFormFile("image", "cake.png")
	require.NoError(t, err)
	_, err = fw.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/upload-image", int(recipeID)), &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["image"])

	// Other users cannot see the recipe.
	w = doJSON(t, r, http.MethodPost, "/api/v1/user/create", "", gin.H{
		"email":    "other@example.com",
		"password": "Testpass123",
		"name":     "Other",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/v1/user/token", "", gin.H{
		"email":    "other@example.com",
		"password": "Testpass123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	otherToken := decode(t, w)["token"].(string)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", int(recipeID)), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Delete removes the recipe and its join rows.
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d", int(recipeID)), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, db.Table("recipe_tags").Count(&count).Error)
	assert.Zero(t, count)
}
