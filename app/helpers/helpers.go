package helpers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rakadenta/wholesale-catalog/app/models"
)

type contextKey string

const (
	ContextKeyUserEmail contextKey = "userEmail"
	ContextKeyUser      contextKey = "userObject"
	ContextKeyIsAdmin   contextKey = "isAdmin"
)

// UserFromContext returns the profile loaded by the session middleware, or
// nil for anonymous requests.
func UserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(ContextKeyUser).(*models.User); ok {
		return user
	}
	return nil
}

func IsAdminFromContext(r *http.Request) bool {
	if admin, ok := r.Context().Value(ContextKeyIsAdmin).(bool); ok {
		return admin
	}
	return false
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", err.Field())
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation.", err.Field(), err.Tag())
		}
	}
	return errorMessages
}
