package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rakadenta/wholesale-catalog/app/models"
	"gorm.io/gorm"
)

type ConfigRepositoryImpl interface {
	GetAdminEmails(ctx context.Context) ([]string, error)
	SetAdminEmails(ctx context.Context, emails []string) error
}

type configRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) ConfigRepositoryImpl {
	return &configRepository{db}
}

// GetAdminEmails loads the admin allow-list. A missing row means nobody is
// an admin yet, which is not an error.
func (r *configRepository) GetAdminEmails(ctx context.Context) ([]string, error) {
	var row models.AppConfig
	err := r.db.WithContext(ctx).Where("name = ?", models.ConfigAdminEmails).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var emails []string
	if err := json.Unmarshal(row.Value, &emails); err != nil {
		return nil, fmt.Errorf("invalid admin allow-list config: %w", err)
	}
	return emails, nil
}

func (r *configRepository) SetAdminEmails(ctx context.Context, emails []string) error {
	value, err := json.Marshal(emails)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&models.AppConfig{
		Name:  models.ConfigAdminEmails,
		Value: value,
	}).Error
}
