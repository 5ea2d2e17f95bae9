package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// ImageStore persists uploaded recipe images under generated keys.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// ImageService validates and attaches uploaded images to recipes.
type ImageService struct {
	db    *gorm.DB
	store ImageStore
}

func NewImageService(db *gorm.DB, store ImageStore) *ImageService {
	return &ImageService{
		db:    db,
		store: store,
	}
}

// AttachImage stores an uploaded image for the caller's recipe, replacing
// any prior image. The payload must decode as an image; the stored key is a
// fresh random identifier plus the original extension.
func (s *ImageService) AttachImage(ctx context.Context, userID, recipeID uint, filename string, r io.Reader) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrNotAnImage
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = "." + format
	}
	key := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), ext)

	if err := s.store.Put(ctx, key, data, "image/"+format); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	oldKey := recipe.ImagePath
	if err := s.db.WithContext(ctx).Model(&recipe).Update("image_path", key).Error; err != nil {
		// Roll back the orphaned object before surfacing the error.
		_ = s.store.Delete(ctx, key)
		return nil, err
	}
	recipe.ImagePath = key

	if oldKey != "" {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			log.Printf("failed to delete replaced image %s: %v", oldKey, err)
		}
	}

	return &recipe, nil
}

// ImageURL resolves a stored image key to a retrievable URL.
func (s *ImageService) ImageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return s.store.URL(ctx, key)
}
