package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID             string                               `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name           string                               `gorm:"size:255" json:"name"`
	Description    string                               `gorm:"type:text" json:"description"`
	WholesalePrice decimal.Decimal                      `gorm:"type:decimal(16,2);not null;default:0" json:"wholesalePrice"`
	RetailPrice    decimal.Decimal                      `gorm:"type:decimal(16,2);not null;default:0" json:"retailPrice"`
	Stock          int                                  `gorm:"not null;default:0" json:"stock"`
	Hidden         bool                                 `gorm:"not null;default:false" json:"hidden"`
	Images         datatypes.JSONSlice[ImageVariantSet] `gorm:"type:json" json:"images"`
	CreatedAt      time.Time                            `json:"createdAt"`
	UpdatedAt      time.Time                            `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt                       `gorm:"index" json:"-"`
}

// ImageVariantSet holds the resized copies of one uploaded product image.
// Medium and Big may be empty on legacy records; use Hero for display.
type ImageVariantSet struct {
	FileName string `json:"fileName"`
	Small    string `json:"small,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Big      string `json:"big,omitempty"`
}

// Hero returns the URL for the main product view, falling back
// medium -> big -> small on legacy records.
func (s ImageVariantSet) Hero() string {
	if s.Medium != "" {
		return s.Medium
	}
	if s.Big != "" {
		return s.Big
	}
	return s.Small
}

// Thumb returns the URL for grid thumbnails, small -> medium -> big.
func (s ImageVariantSet) Thumb() string {
	if s.Small != "" {
		return s.Small
	}
	if s.Medium != "" {
		return s.Medium
	}
	return s.Big
}

// Purchasable reports whether the product can be selected at all.
// Stock 0 means the supplier is restocking.
func (p *Product) Purchasable() bool {
	return p.Stock > 0
}
