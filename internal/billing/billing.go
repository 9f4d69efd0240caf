// Package billing derives per-participant totals and the grand total
// from a week's orders.
package billing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mknorr/kantine/internal/models"
)

// Parse normalizes a raw price into a decimal amount. The input is
// locale-flexible: the first comma is treated as the decimal separator.
// Anything that still fails to parse contributes zero; aggregation must
// never abort over one bad value.
func Parse(raw models.Price) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders an amount with exactly two decimal places, e.g. "3.50".
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// UserTotal sums the prices of one participant's per-day selection.
func UserTotal(order map[string]models.Meal) decimal.Decimal {
	total := decimal.Zero
	for _, meal := range order {
		total = total.Add(Parse(meal.Price))
	}
	return total
}

// GrandTotal sums UserTotal over every participant. The empty order
// book totals zero.
func GrandTotal(orders map[string]map[string]models.Meal) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(UserTotal(order))
	}
	return total
}
