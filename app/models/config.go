package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppConfig is a row in the configs collection: per-feature settings keyed
// by name, value stored as JSON.
type AppConfig struct {
	Name      string         `gorm:"size:100;not null;primary_key"`
	Value     datatypes.JSON `gorm:"type:json"`
	UpdatedAt time.Time
}

const (
	// ConfigAdminEmails holds the admin allow-list as a JSON array of
	// email addresses.
	ConfigAdminEmails = "admin_emails"
)
