package seeders

import (
	"context"
	"log"

	"github.com/rakadenta/wholesale-catalog/app/db/fakers"
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/repositories"
	"github.com/rakadenta/wholesale-catalog/app/services"
	"gorm.io/gorm"
)

const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "admin-dev-password"
	seedProductCount  = 24
)

// DBSeed fills a development database: products, a merchant, and an admin
// whose email lands on the allow-list.
func DBSeed(ctx context.Context, db *gorm.DB) error {
	for i := 0; i < seedProductCount; i++ {
		if err := db.WithContext(ctx).Create(fakers.ProductFaker()).Error; err != nil {
			return err
		}
	}

	merchant := fakers.UserFaker("merchant-dev-password")
	if err := db.WithContext(ctx).Create(merchant).Error; err != nil {
		return err
	}

	hash, err := services.HashPassword(seedAdminPassword)
	if err != nil {
		return err
	}
	admin := &models.User{
		Email:        seedAdminEmail,
		FirstName:    "Dev",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}

	configRepo := repositories.NewConfigRepository(db)
	if err := configRepo.SetAdminEmails(ctx, []string{seedAdminEmail}); err != nil {
		return err
	}

	log.Printf("Seeded %d products, merchant %s, admin %s", seedProductCount, merchant.Email, seedAdminEmail)
	return nil
}
