package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/rakadenta/wholesale-catalog/app/helpers"
	"github.com/rakadenta/wholesale-catalog/app/services"
	"github.com/rakadenta/wholesale-catalog/app/utils/sessions"
)

// CurrentUserMiddleware resolves the signed-in profile and admin capability
// for every request and stashes them in the context. Anonymous requests
// pass through with neither.
func CurrentUserMiddleware(store sessions.SessionStore, identity *services.IdentityService, authz *services.AuthorizationService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := store.GetUserEmail(r)
			if email == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUserEmail, email)

			user, err := identity.ResolveProfile(ctx, email)
			if err != nil {
				log.Printf("CurrentUserMiddleware: failed to resolve profile for %s: %v", email, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			ctx = context.WithValue(ctx, helpers.ContextKeyUser, user)

			isAdmin, err := authz.IsAdmin(ctx, email)
			if err != nil {
				log.Printf("CurrentUserMiddleware: admin check failed for %s: %v", email, err)
				isAdmin = false
			}
			ctx = context.WithValue(ctx, helpers.ContextKeyIsAdmin, isAdmin)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
