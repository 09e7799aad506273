package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/rakadenta/wholesale-catalog/app/repositories"
)

// ErrNotInitialized is returned when a service is used before its backing
// connection has been wired up.
var ErrNotInitialized = errors.New("service not initialized")

// Watcher delivers full snapshots of the products collection in arrival
// order. Every snapshot is authoritative and completely replaces the last.
type Watcher interface {
	Subscribe(onSnapshot func([]models.Product)) (unsubscribe func(), err error)
}

// pollWatcher realizes the collection subscription as interval polling over
// the product repository.
type pollWatcher struct {
	repo     repositories.ProductRepositoryImpl
	interval time.Duration
}

func NewPollWatcher(repo repositories.ProductRepositoryImpl, interval time.Duration) Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &pollWatcher{repo: repo, interval: interval}
}

func (w *pollWatcher) Subscribe(onSnapshot func([]models.Product)) (func(), error) {
	if w.repo == nil {
		return nil, ErrNotInitialized
	}

	ctx, cancel := context.WithCancel(context.Background())

	deliver := func() {
		products, err := w.repo.GetAll(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("catalog watcher: failed to fetch snapshot: %v", err)
			}
			return
		}
		onSnapshot(products)
	}

	deliver()
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deliver()
			}
		}
	}()

	return cancel, nil
}

// CatalogService mirrors the products collection in memory. It owns the
// list exclusively; consumers get copies via Snapshot and Visible.
type CatalogService struct {
	mu       sync.RWMutex
	products []models.Product
	subs     map[int]func([]models.Product)
	nextSub  int
	stop     func()
}

func NewCatalogService(w Watcher) (*CatalogService, error) {
	s := &CatalogService{subs: make(map[int]func([]models.Product))}
	stop, err := w.Subscribe(s.apply)
	if err != nil {
		return nil, err
	}
	s.stop = stop
	return s, nil
}

// apply normalizes and re-sorts an incoming snapshot, then replaces the
// mirror wholesale. Ties on createdAt are unstable across snapshots.
func (s *CatalogService) apply(snapshot []models.Product) {
	normalized := make([]models.Product, len(snapshot))
	for i, p := range snapshot {
		normalized[i] = NormalizeProduct(p)
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].CreatedAt.After(normalized[j].CreatedAt)
	})

	s.mu.Lock()
	s.products = normalized
	subs := make([]func([]models.Product), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(normalized)
	}
}

// NormalizeProduct applies the canonical-shape migration once at load time:
// stock never negative, image sets in one canonical form.
func NormalizeProduct(p models.Product) models.Product {
	if p.Stock < 0 {
		p.Stock = 0
	}
	if len(p.Images) > 0 {
		// Legacy records may carry only one URL; Hero/Thumb fall back at
		// read time, but entirely empty sets are dropped here.
		kept := make([]models.ImageVariantSet, 0, len(p.Images))
		for _, set := range p.Images {
			if set.Small != "" || set.Medium != "" || set.Big != "" {
				kept = append(kept, set)
			}
		}
		p.Images = kept
	}
	return p
}

// Subscribe registers a change callback and returns its unsubscribe func.
func (s *CatalogService) Subscribe(fn func([]models.Product)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current mirror.
func (s *CatalogService) Snapshot() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Visible applies the hidden-product rule: non-admin viewers never see
// hidden products.
func (s *CatalogService) Visible(admin bool) []models.Product {
	snapshot := s.Snapshot()
	if admin {
		return snapshot
	}
	visible := snapshot[:0]
	for _, p := range snapshot {
		if !p.Hidden {
			visible = append(visible, p)
		}
	}
	return visible
}

// FindByID resolves a product in the current snapshot. The bool result is
// false for deleted or unknown products.
func (s *CatalogService) FindByID(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (s *CatalogService) Close() {
	if s.stop != nil {
		s.stop()
	}
}
