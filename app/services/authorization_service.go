package services

import (
	"context"
	"strings"

	"github.com/rakadenta/wholesale-catalog/app/repositories"
)

// AuthorizationService answers "what is this user allowed to do". Admin
// authority comes from the stored allow-list, never from the advisory role
// field on the profile.
type AuthorizationService struct {
	configs repositories.ConfigRepositoryImpl
}

func NewAuthorizationService(configs repositories.ConfigRepositoryImpl) *AuthorizationService {
	return &AuthorizationService{configs: configs}
}

func (s *AuthorizationService) IsAdmin(ctx context.Context, email string) (bool, error) {
	if s.configs == nil {
		return false, ErrNotInitialized
	}
	if email == "" {
		return false, nil
	}

	emails, err := s.configs.GetAdminEmails(ctx)
	if err != nil {
		return false, err
	}
	for _, allowed := range emails {
		if strings.EqualFold(allowed, email) {
			return true, nil
		}
	}
	return false, nil
}
