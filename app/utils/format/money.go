package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var usd = accounting.Accounting{Symbol: "$", Precision: 2}

// Money renders a price for templates and email bodies.
func Money(amount decimal.Decimal) string {
	return usd.FormatMoneyDecimal(amount)
}
