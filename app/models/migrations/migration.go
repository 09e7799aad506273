package migrations

import (
	"github.com/rakadenta/wholesale-catalog/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Product{}, &models.AppConfig{})
}
