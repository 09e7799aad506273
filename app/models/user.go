package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the merchant profile. The email doubles as the persistence key,
// matching how profiles are stored in the users collection.
type User struct {
	Email        string `gorm:"size:100;not null;primary_key" json:"email"`
	FirstName    string `gorm:"size:100" json:"firstName"`
	LastName     string `gorm:"size:100" json:"lastName"`
	Phone        string `gorm:"size:20" json:"phone"`
	BusinessName string `gorm:"size:255" json:"businessName"`
	Street       string `gorm:"size:255" json:"street"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	Zipcode      string `gorm:"size:20" json:"zipcode"`

	// Role is advisory only. Admin authority comes from the allow-list,
	// see services.AuthorizationService.
	Role string `gorm:"size:20;default:'merchant';not null" json:"role"`

	PasswordHash string         `gorm:"size:255" json:"-"`
	CreatedAt    time.Time      `json:"-"`
	UpdatedAt    time.Time      `json:"-"`
	DeletedAt    gorm.DeletedAt `json:"-"`
}

const (
	RoleAdmin    = "admin"
	RoleMerchant = "merchant"
)

// DefaultProfile builds the profile used when a signed-in user has no
// stored record yet. It is never persisted automatically; persistence
// happens when the user submits the interest form.
func DefaultProfile(email string) *User {
	return &User{
		Email: email,
		Role:  RoleMerchant,
	}
}
