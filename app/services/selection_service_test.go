package services

import (
	"testing"

	"github.com/rakadenta/wholesale-catalog/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLedger(t *testing.T) {
	t.Run("Toggle_AbsentBecomesOne_PresentRemoved", func(t *testing.T) {
		ledger := Ledger{}

		ledger.Toggle("a")
		require.Equal(t, 1, ledger["a"])

		ledger.Toggle("a")
		_, present := ledger["a"]
		require.False(t, present)
	})

	t.Run("Set_PositiveStoredVerbatim", func(t *testing.T) {
		ledger := Ledger{}
		ledger.Set("a", 7)
		require.Equal(t, 7, ledger["a"])

		// No clamping at this layer.
		ledger.Set("a", 42)
		require.Equal(t, 42, ledger["a"])
	})

	t.Run("Set_ZeroOrNegativeRemovesEntry", func(t *testing.T) {
		ledger := Ledger{"a": 3, "b": 2}

		ledger.Set("a", 0)
		_, present := ledger["a"]
		require.False(t, present, "quantity 0 is never stored")

		ledger.Set("b", -5)
		_, present = ledger["b"]
		require.False(t, present)
	})

	t.Run("Count_SumsQuantities", func(t *testing.T) {
		ledger := Ledger{"a": 2, "b": 3}
		require.Equal(t, 5, ledger.Count())
		require.Equal(t, 0, Ledger{}.Count())
	})
}

func TestSelectionService(t *testing.T) {
	setup := func(t *testing.T, products ...models.Product) (*SelectionService, *manualWatcher) {
		catalog, watcher := newTestCatalog(t)
		watcher.push(products)
		return NewSelectionService(catalog), watcher
	}

	t.Run("Total_QuantityTimesWholesale_UnknownContributesZero", func(t *testing.T) {
		svc, _ := setup(t,
			product("a", "Known", func(p *models.Product) { p.WholesalePrice = decimal.NewFromInt(10) }),
		)

		ledger := Ledger{"a": 2, "b": 3}
		require.True(t, svc.Total(ledger).Equal(decimal.NewFromInt(20)),
			"unknown product b contributes 0, silently")

		// The unknown entry stays in the ledger.
		require.Equal(t, 3, ledger["b"])
	})

	t.Run("Prune_StockZeroForcesDeselect", func(t *testing.T) {
		svc, watcher := setup(t,
			product("a", "Stocked"),
			product("b", "Restocking", func(p *models.Product) { p.Stock = 0 }),
		)

		ledger := Ledger{"a": 2, "b": 4}
		svc.Prune(ledger)
		require.Equal(t, 2, ledger["a"])
		_, present := ledger["b"]
		require.False(t, present, "no selected product may have effective stock 0")

		// A later snapshot dropping a's stock to zero deselects it too.
		watcher.push([]models.Product{
			product("a", "Stocked", func(p *models.Product) { p.Stock = 0 }),
		})
		svc.Prune(ledger)
		require.Empty(t, ledger)
	})

	t.Run("Items_ResolvesLedgerAgainstSnapshot", func(t *testing.T) {
		svc, _ := setup(t, product("a", "Known"))

		items := svc.Items(Ledger{"a": 2, "ghost": 1})
		require.Len(t, items, 1)
		require.Equal(t, "a", items[0].Product.ID)
		require.Equal(t, 2, items[0].Quantity)
	})
}
