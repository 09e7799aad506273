package fakers

import (
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/shopspring/decimal"
)

func ProductFaker() *models.Product {
	wholesale := decimal.NewFromFloat(float64(rand.Intn(9000)+100) / 100)
	// Retail is independent of wholesale; no enforced relation.
	retail := decimal.NewFromFloat(float64(rand.Intn(20000)+200) / 100)

	images := []models.ImageVariantSet{
		{
			FileName: "sample.jpg",
			Small:    "/uploads/products/sample/sample_small.jpg",
			Medium:   "/uploads/products/sample/sample_medium.jpg",
			Big:      "/uploads/products/sample/sample_big.jpg",
		},
	}

	return &models.Product{
		ID:             uuid.New().String(),
		Name:           faker.Name(),
		Description:    faker.Paragraph(),
		WholesalePrice: wholesale,
		RetailPrice:    retail,
		Stock:          rand.Intn(20),
		Hidden:         rand.Intn(10) == 0,
		Images:         images,
		CreatedAt:      time.Now().Add(-time.Duration(rand.Intn(720)) * time.Hour),
		UpdatedAt:      time.Now(),
	}
}
