package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// UserIdentity is what the identity provider vouches for: who the user
// claims to be, nothing about what they may do.
type UserIdentity struct {
	Email       string
	DisplayName string
}

// IdentityService stands in for the external identity provider with a
// local email+password check.
type IdentityService struct {
	users repositories.UserRepositoryImpl
}

func NewIdentityService(users repositories.UserRepositoryImpl) *IdentityService {
	return &IdentityService{users: users}
}

func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*UserIdentity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &UserIdentity{
		Email:       user.Email,
		DisplayName: strings.TrimSpace(user.FirstName + " " + user.LastName),
	}, nil
}

// ResolveProfile fetches the stored profile or default-constructs one. The
// default is never persisted here; persistence happens on interest-form
// submit.
func (s *IdentityService) ResolveProfile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DefaultProfile(email), nil
		}
		return nil, err
	}
	return user, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
