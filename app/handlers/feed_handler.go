package handlers

import (
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/rakadenta/wholesale-catalog/app/helpers"
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/services"
	"github.com/rakadenta/wholesale-catalog/app/utils/sessions"
	"github.com/rakadenta/wholesale-catalog/app/utils/window"
	"github.com/unrolled/render"
)

// feedState is one viewer's windowing and search state, keyed by the
// session's feed key. SearchState locks itself; window access goes through
// mu because parallel requests can share one session.
type feedState struct {
	mu     sync.Mutex
	window *window.Window
	search *services.SearchState
}

type FeedHandler struct {
	catalog   *services.CatalogService
	search    *services.SearchService
	selection *services.SelectionService
	sessions  sessions.SessionStore
	render    *render.Render

	mu     sync.Mutex
	states map[string]*feedState
}

func NewFeedHandler(catalog *services.CatalogService, search *services.SearchService, selection *services.SelectionService, store sessions.SessionStore, r *render.Render) *FeedHandler {
	return &FeedHandler{
		catalog:   catalog,
		search:    search,
		selection: selection,
		sessions:  store,
		render:    r,
		states:    make(map[string]*feedState),
	}
}

func (h *FeedHandler) state(w http.ResponseWriter, r *http.Request) (*feedState, error) {
	key, err := h.sessions.GetFeedKey(w, r)
	if err != nil {
		return nil, err
	}

	width := intQuery(r, "width", 1280)

	h.mu.Lock()
	st, ok := h.states[key]
	if !ok {
		// The client round-trips its last window count so a reload does
		// not collapse the feed back to one batch.
		st = &feedState{
			window: window.Restore(width, window.DefaultRowsPerBatch, intQuery(r, "count", 0)),
			search: &services.SearchState{},
		}
		h.states[key] = st
	}
	h.mu.Unlock()

	if ok && r.URL.Query().Has("width") {
		st.mu.Lock()
		st.window.Resize(width)
		st.mu.Unlock()
	}
	return st, nil
}

type feedResponse struct {
	Products     []models.Product `json:"products"`
	VisibleCount int              `json:"visibleCount"`
	// WindowCount is the raw window size; the client sends it back as the
	// count parameter when it rebuilds its state.
	WindowCount int              `json:"windowCount"`
	Total       int              `json:"total"`
	Columns     int              `json:"columns"`
	Searching   bool             `json:"searching"`
	Pending     bool             `json:"pending"`
	Selection   selectionSummary `json:"selection"`
	ViewState   string           `json:"viewState"`
}

type selectionSummary struct {
	Count int                   `json:"count"`
	Total string                `json:"total"`
	Items map[string]int        `json:"items"`
	Rows  []models.InterestItem `json:"rows,omitempty"`
}

// Feed renders the catalog window for the current viewer: local filtering
// on the query text, remote results when a committed search has them,
// incremental windowing otherwise.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	st, err := h.state(w, r)
	if err != nil {
		http.Error(w, "failed to load feed state", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Has("q") {
		st.search.Edit(r.URL.Query().Get("q"))
	}

	admin := helpers.IsAdminFromContext(r)
	catalog := h.catalog.Visible(admin)
	results := st.search.Results(catalog)

	searching := st.search.Active()
	st.mu.Lock()
	st.window.Clamp(len(results))
	visible := st.window.Visible(len(results), searching)
	columns := st.window.Columns()
	count := st.window.Count()
	st.mu.Unlock()

	ledger := services.Ledger(h.sessions.GetLedger(r))
	h.selection.Prune(ledger)
	if err := h.sessions.SetLedger(w, r, ledger); err != nil {
		log.Printf("Feed: failed to save pruned ledger: %v", err)
	}

	h.respond(w, r, feedResponse{
		Products:     results[:visible],
		VisibleCount: visible,
		WindowCount:  count,
		Total:        len(results),
		Columns:      columns,
		Searching:    searching,
		Pending:      st.search.Pending(),
		Selection:    h.summary(ledger),
		ViewState:    string(h.resolveViewState(r, admin)),
	})
}

// CommitSearch runs the on-demand remote search for the committed query.
// The result is applied through the search state, which drops it if the
// query was edited while the fetch was in flight.
func (h *FeedHandler) CommitSearch(w http.ResponseWriter, r *http.Request) {
	st, err := h.state(w, r)
	if err != nil {
		http.Error(w, "failed to load feed state", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	st.search.Edit(r.Form.Get("q"))

	query, launch := st.search.Commit()
	if launch {
		admin := helpers.IsAdminFromContext(r)
		results, err := h.search.Remote(r.Context(), query, admin)
		if err != nil {
			log.Printf("CommitSearch: remote search failed: %v", err)
			st.search.FailRemote(query)
			h.render.JSON(w, http.StatusBadGateway, map[string]string{
				"error": "search failed, please retry",
			})
			return
		}
		st.search.ApplyRemote(query, results)
	}

	h.Feed(w, r)
}

// Advance fires when the sentinel below the grid becomes visible: reveal
// one more batch of rows.
func (h *FeedHandler) Advance(w http.ResponseWriter, r *http.Request) {
	st, err := h.state(w, r)
	if err != nil {
		http.Error(w, "failed to load feed state", http.StatusInternalServerError)
		return
	}

	admin := helpers.IsAdminFromContext(r)
	results := st.search.Results(h.catalog.Visible(admin))
	st.mu.Lock()
	st.window.Advance(len(results))
	st.mu.Unlock()

	h.Feed(w, r)
}

func (h *FeedHandler) summary(ledger services.Ledger) selectionSummary {
	return selectionSummary{
		Count: ledger.Count(),
		Total: h.selection.Total(ledger).StringFixed(2),
		Items: ledger,
		Rows:  h.selection.Items(ledger),
	}
}

func (h *FeedHandler) resolveViewState(r *http.Request, admin bool) services.ViewState {
	persisted := services.ViewState(h.sessions.GetViewState(r))
	authResolved := true
	allowListLoaded := helpers.UserFromContext(r) != nil
	return services.ResolveViewState(persisted, authResolved, allowListLoaded, admin)
}

func (h *FeedHandler) respond(w http.ResponseWriter, r *http.Request, payload feedResponse) {
	_ = r
	if err := h.render.JSON(w, http.StatusOK, payload); err != nil {
		log.Printf("Feed: failed to render response: %v", err)
	}
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return fallback
	}
	return val
}
