package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/rakadenta/wholesale-catalog/app/helpers"
	"github.com/rakadenta/wholesale-catalog/app/services"
	"github.com/rakadenta/wholesale-catalog/app/utils/sessions"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	identity *services.IdentityService
	authz    *services.AuthorizationService
	sessions sessions.SessionStore
	render   *render.Render
}

func NewAuthHandler(identity *services.IdentityService, authz *services.AuthorizationService, store sessions.SessionStore, r *render.Render) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		authz:    authz,
		sessions: store,
		render:   r,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	identity, err := h.identity.SignIn(r.Context(), r.Form.Get("email"), r.Form.Get("password"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		log.Printf("Login: sign-in failed: %v", err)
		http.Error(w, "sign-in failed, please retry", http.StatusInternalServerError)
		return
	}

	if err := h.sessions.SetUserEmail(w, r, identity.Email); err != nil {
		log.Printf("Login: failed to save session: %v", err)
		http.Error(w, "sign-in failed, please retry", http.StatusInternalServerError)
		return
	}

	h.State(w, r)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearSession(w, r); err != nil {
		log.Printf("Logout: failed to clear session: %v", err)
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"viewState": string(services.ViewFeed)})
}

type stateResponse struct {
	ViewState string      `json:"viewState"`
	IsAdmin   bool        `json:"isAdmin"`
	Profile   interface{} `json:"profile,omitempty"`
}

// State resolves the top-level view for this session: the persisted state
// restored against the current user and allow-list.
func (h *AuthHandler) State(w http.ResponseWriter, r *http.Request) {
	email := h.sessions.GetUserEmail(r)

	isAdmin := false
	var profile interface{}
	allowListLoaded := false

	if email != "" {
		user, err := h.identity.ResolveProfile(r.Context(), email)
		if err != nil {
			log.Printf("State: failed to resolve profile for %s: %v", email, err)
		} else {
			profile = user
		}

		isAdmin, err = h.authz.IsAdmin(r.Context(), email)
		if err != nil {
			log.Printf("State: allow-list fetch failed: %v", err)
		} else {
			allowListLoaded = true
		}
	}

	persisted := services.ViewState(h.sessions.GetViewState(r))
	state := services.ResolveViewState(persisted, true, allowListLoaded, isAdmin)

	_ = h.render.JSON(w, http.StatusOK, stateResponse{
		ViewState: string(state),
		IsAdmin:   isAdmin,
		Profile:   profile,
	})
}

// SetState persists the view the client navigated to. ADMIN_DASHBOARD is
// only accepted from allow-listed users; LOADING is never persisted.
func (h *AuthHandler) SetState(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	requested := services.ViewState(r.Form.Get("state"))
	persistable, ok := services.PersistableViewState(requested)
	if !ok {
		http.Error(w, "state cannot be persisted", http.StatusBadRequest)
		return
	}

	if persistable == services.ViewAdminDashboard && !helpers.IsAdminFromContext(r) {
		http.Error(w, "admin authority required", http.StatusForbidden)
		return
	}

	if err := h.sessions.SetViewState(w, r, string(persistable)); err != nil {
		log.Printf("SetState: failed to save view state: %v", err)
		http.Error(w, "failed to save state", http.StatusInternalServerError)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]string{"viewState": string(persistable)})
}
