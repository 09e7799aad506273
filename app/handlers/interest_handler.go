package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rakadenta/wholesale-catalog/app/helpers"
	"github.com/rakadenta/wholesale-catalog/app/services"
	"github.com/rakadenta/wholesale-catalog/app/utils/sessions"
	"github.com/unrolled/render"
)

type InterestHandler struct {
	interest  *services.InterestService
	selection *services.SelectionService
	sessions  sessions.SessionStore
	render    *render.Render
}

func NewInterestHandler(interest *services.InterestService, selection *services.SelectionService, store sessions.SessionStore, r *render.Render) *InterestHandler {
	return &InterestHandler{
		interest:  interest,
		selection: selection,
		sessions:  store,
		render:    r,
	}
}

// Submit turns the current selection into a drafted inquiry. This is also
// the moment the merchant profile is persisted.
func (h *InterestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := helpers.UserFromContext(r)
	if user == nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	input := services.ProfileInput{
		FirstName:    r.Form.Get("firstName"),
		LastName:     r.Form.Get("lastName"),
		Phone:        r.Form.Get("phone"),
		BusinessName: r.Form.Get("businessName"),
		Street:       r.Form.Get("street"),
		City:         r.Form.Get("city"),
		State:        r.Form.Get("state"),
		Zipcode:      r.Form.Get("zipcode"),
	}

	ledger := services.Ledger(h.sessions.GetLedger(r))
	h.selection.Prune(ledger)
	items := h.selection.Items(ledger)

	result, err := h.interest.Submit(r.Context(), user, input, items)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": helpers.FormatValidationErrors(verrs),
			})
			return
		}
		log.Printf("Submit: interest submission failed: %v", err)
		_ = h.render.JSON(w, http.StatusBadGateway, map[string]string{
			"error": "submission failed, please retry",
		})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, result)
}
