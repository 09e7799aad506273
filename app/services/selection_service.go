package services

import (
	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/shopspring/decimal"
)

// Ledger maps product ID to requested quantity. Absence of an entry, a
// quantity of zero, and "not selected" are all the same thing: zero is
// never stored.
type Ledger map[string]int

// Toggle flips a product's selection: absent becomes quantity 1, present is
// removed.
func (l Ledger) Toggle(productID string) {
	if _, ok := l[productID]; ok {
		delete(l, productID)
		return
	}
	l[productID] = 1
}

// Set stores an explicit quantity. Zero or negative removes the entry.
// The ledger does not clamp; the [1,10] range is a concern of the quantity
// control, not of this layer.
func (l Ledger) Set(productID string, qty int) {
	if qty <= 0 {
		delete(l, productID)
		return
	}
	l[productID] = qty
}

// Count is the sum of all requested quantities.
func (l Ledger) Count() int {
	total := 0
	for _, qty := range l {
		total += qty
	}
	return total
}

// SelectionService derives totals from the ledger against the catalog
// mirror and enforces the auto-deselect rule for restocking products.
type SelectionService struct {
	catalog *CatalogService
}

func NewSelectionService(catalog *CatalogService) *SelectionService {
	return &SelectionService{catalog: catalog}
}

// Prune removes entries for products whose stock has dropped to zero. It
// runs against every snapshot the caller touches, so no selected product
// ever has effective stock 0. Entries for unknown products are kept; they
// simply contribute nothing to totals.
func (s *SelectionService) Prune(ledger Ledger) {
	for id := range ledger {
		if p, ok := s.catalog.FindByID(id); ok && !p.Purchasable() {
			delete(ledger, id)
		}
	}
}

// Total sums quantity × wholesalePrice over every entry whose product still
// resolves in the current snapshot. Unknown products contribute zero,
// silently.
func (s *SelectionService) Total(ledger Ledger) decimal.Decimal {
	total := decimal.Zero
	for id, qty := range ledger {
		p, ok := s.catalog.FindByID(id)
		if !ok {
			continue
		}
		total = total.Add(p.WholesalePrice.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// Items resolves the ledger into product+quantity pairs for the interest
// inquiry, skipping unknown products.
func (s *SelectionService) Items(ledger Ledger) []models.InterestItem {
	items := make([]models.InterestItem, 0, len(ledger))
	for _, p := range s.catalog.Snapshot() {
		if qty, ok := ledger[p.ID]; ok {
			items = append(items, models.InterestItem{Product: p, Quantity: qty})
		}
	}
	return items
}
