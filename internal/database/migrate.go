package database

import (
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// AutoMigrate creates or updates the schema for all application models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	)
}
