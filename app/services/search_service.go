package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/repositories"
)

// Tokens lower-cases a query and splits it on whitespace.
func Tokens(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// MatchesTokens reports whether ANY token is a substring of the product's
// lower-cased name+" "+description. OR-of-substrings, not AND, not ranked.
func MatchesTokens(p models.Product, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	haystack := strings.ToLower(p.Name + " " + p.Description)
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			return true
		}
	}
	return false
}

// FilterLocal applies the token-match rule to an in-memory product list.
// An empty query returns the list unchanged.
func FilterLocal(products []models.Product, query string) []models.Product {
	tokens := Tokens(query)
	if len(tokens) == 0 {
		return products
	}
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if MatchesTokens(p, tokens) {
			matched = append(matched, p)
		}
	}
	return matched
}

// SearchService runs the on-demand remote search: a full fetch over the
// entire collection, filtered with the same token rule, sorted newest
// first.
type SearchService struct {
	repo repositories.ProductRepositoryImpl
}

func NewSearchService(repo repositories.ProductRepositoryImpl) *SearchService {
	return &SearchService{repo: repo}
}

func (s *SearchService) Remote(ctx context.Context, query string, admin bool) ([]models.Product, error) {
	if s.repo == nil {
		return nil, ErrNotInitialized
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	tokens := Tokens(query)
	results := make([]models.Product, 0, len(all))
	for _, p := range all {
		p = NormalizeProduct(p)
		if p.Hidden && !admin {
			continue
		}
		if MatchesTokens(p, tokens) {
			results = append(results, p)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

// SearchState tracks one viewer's query lifecycle. Remote results, once
// present, supersede local filtering until the query is cleared or edited.
// A remote search that resolves after its query was edited is dropped; one
// that resolves for the still-current query lands even if it was superseded
// by a newer commit of the same text.
type SearchState struct {
	mu        sync.Mutex
	query     string
	committed string
	pending   bool
	remote    []models.Product
	hasRemote bool
}

// Edit updates the query text. Changing the text clears remote results and
// reverts to local filtering on the new text.
func (st *SearchState) Edit(query string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if query == st.query {
		return
	}
	st.query = query
	st.committed = ""
	st.pending = false
	st.remote = nil
	st.hasRemote = false
}

// Commit marks the current query as committed. An empty commit clears
// remote results and returns to the unfiltered/local view.
func (st *SearchState) Commit() (query string, launch bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if strings.TrimSpace(st.query) == "" {
		st.committed = ""
		st.pending = false
		st.remote = nil
		st.hasRemote = false
		return "", false
	}
	st.committed = st.query
	st.pending = true
	return st.query, true
}

// ApplyRemote installs remote results if the committed query still matches
// the one that launched them.
func (st *SearchState) ApplyRemote(query string, results []models.Product) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.committed != query {
		return
	}
	st.remote = results
	st.hasRemote = true
	st.pending = false
}

// FailRemote clears the pending flag without installing results.
func (st *SearchState) FailRemote(query string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.committed != query {
		return
	}
	st.pending = false
}

func (st *SearchState) Query() string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.query
}

func (st *SearchState) Pending() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.pending
}

// Active reports whether a committed search is in effect, which disables
// render windowing. Uncommitted text filters locally but still windows;
// a committed query counts even when its remote fetch failed and the
// results are served by the local filter.
func (st *SearchState) Active() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.committed != ""
}

// Results resolves the viewer's product list: remote results when present,
// otherwise the local token filter over the catalog snapshot.
func (st *SearchState) Results(catalog []models.Product) []models.Product {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.hasRemote {
		return st.remote
	}
	return FilterLocal(catalog, st.query)
}
