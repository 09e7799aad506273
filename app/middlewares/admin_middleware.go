package middlewares

import (
	"log"
	"net/http"

	"github.com/rakadenta/wholesale-catalog/app/helpers"
)

// AdminAuthMiddleware gates the admin surface on the allow-list capability
// resolved by CurrentUserMiddleware, not on the profile's role field.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := helpers.UserFromContext(r)
		if user == nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		if !helpers.IsAdminFromContext(r) {
			log.Printf("AdminAuthMiddleware: %s attempted to access the admin surface without authority", user.Email)
			http.Error(w, "admin authority required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
