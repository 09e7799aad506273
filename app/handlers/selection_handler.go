package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/rakadenta/wholesale-catalog/app/services"
	"github.com/rakadenta/wholesale-catalog/app/utils/sessions"
	"github.com/unrolled/render"
)

type SelectionHandler struct {
	catalog   *services.CatalogService
	selection *services.SelectionService
	sessions  sessions.SessionStore
	render    *render.Render
}

func NewSelectionHandler(catalog *services.CatalogService, selection *services.SelectionService, store sessions.SessionStore, r *render.Render) *SelectionHandler {
	return &SelectionHandler{
		catalog:   catalog,
		selection: selection,
		sessions:  store,
		render:    r,
	}
}

type selectionResponse struct {
	Count int            `json:"count"`
	Total string         `json:"total"`
	Items map[string]int `json:"items"`
}

// Toggle flips or sets a product's requested quantity. Without a qty field
// it is a pure toggle; with one, qty<=0 deselects and qty>0 sets it. The
// quantity control clamps to [1,10] before it ever reaches here.
func (h *SelectionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	productID := r.Form.Get("productId")
	if productID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}

	product, known := h.catalog.FindByID(productID)
	if known && !product.Purchasable() {
		// Restocking products cannot be selected at any quantity.
		h.respond(w, r, services.Ledger(h.sessions.GetLedger(r)))
		return
	}

	ledger := services.Ledger(h.sessions.GetLedger(r))
	if rawQty := r.Form.Get("qty"); rawQty != "" {
		qty, err := strconv.Atoi(rawQty)
		if err != nil {
			http.Error(w, "qty must be an integer", http.StatusBadRequest)
			return
		}
		ledger.Set(productID, qty)
	} else {
		ledger.Toggle(productID)
	}

	h.selection.Prune(ledger)
	if err := h.sessions.SetLedger(w, r, ledger); err != nil {
		log.Printf("Toggle: failed to save ledger: %v", err)
		http.Error(w, "failed to save selection", http.StatusInternalServerError)
		return
	}

	h.respond(w, r, ledger)
}

// Summary returns the derived selection values for the header badge.
func (h *SelectionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ledger := services.Ledger(h.sessions.GetLedger(r))
	h.selection.Prune(ledger)
	if err := h.sessions.SetLedger(w, r, ledger); err != nil {
		log.Printf("Summary: failed to save pruned ledger: %v", err)
	}
	h.respond(w, r, ledger)
}

func (h *SelectionHandler) respond(w http.ResponseWriter, r *http.Request, ledger services.Ledger) {
	_ = r
	_ = h.render.JSON(w, http.StatusOK, selectionResponse{
		Count: ledger.Count(),
		Total: h.selection.Total(ledger).StringFixed(2),
		Items: ledger,
	})
}
