package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyIDR formats an amount in Indonesian Rupiah.
// Example: 15000.50 -> "Rp 15.000,50"
func FormatCurrencyIDR(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	integer := d.Truncate(0)
	cents := d.Sub(integer).Mul(decimal.NewFromInt(100)).IntPart()

	out := "Rp " + sign + groupThousands(integer.String())
	if cents > 0 {
		out += fmt.Sprintf(",%02d", cents)
	}
	return out
}

func groupThousands(digits string) string {
	var parts []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{digits[start:i]}, parts...)
	}
	return strings.Join(parts, ".")
}

// SumAmounts adds amounts without float drift.
func SumAmounts(amounts ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total
}
