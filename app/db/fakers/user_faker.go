package fakers

import (
	"log"
	"strings"

	"github.com/go-faker/faker/v4"
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/services"
)

func UserFaker(password string) *models.User {
	hash, err := services.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash faker password:", err)
	}

	return &models.User{
		Email:        strings.ToLower(faker.Email()),
		FirstName:    faker.FirstName(),
		LastName:     faker.LastName(),
		Phone:        faker.Phonenumber(),
		BusinessName: faker.Word() + " Retail",
		Role:         models.RoleMerchant,
		PasswordHash: hash,
	}
}
