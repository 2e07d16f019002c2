package storefront

import (
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat tax applied to every order unless configured otherwise.
var DefaultTaxRate = decimal.RequireFromString("0.10")

// Totals is derived from line items on demand and never stored alongside the cart.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals applies taxRate to the exact subtotal. No rounding is performed.
func ComputeTotals(items []LineItem, taxRate decimal.Decimal) Totals {
	return totalsFromSubtotal(subtotalOf(items), taxRate)
}

func totalsFromSubtotal(subtotal, taxRate decimal.Decimal) Totals {
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

func subtotalOf(items []LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}
