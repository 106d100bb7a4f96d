// Package format renders amounts for display. Output follows German
// conventions: "." groups thousands, "," separates decimals and the euro sign
// trails the amount.
package format

import (
	"math"
	"strings"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with thousands separators and a trailing
// euro sign (e.g., "-1.234,56 €").
func Currency(amount float64) string {
	return NumericCurrency(amount) + " €"
}

// NumericCurrency returns a currency string without a symbol but with
// separators (e.g., "-1.234,56").
func NumericCurrency(amount float64) string {
	return Number(amount, constants.CurrencyPlaces)
}

// Percent returns a percentage with two decimals (e.g., "4,20 %").
func Percent(value float64) string {
	return Number(value, constants.CurrencyPlaces) + " %"
}

// Number rounds value half away from zero to the given number of places and
// renders it with German separators.
func Number(value float64, places int32) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	rounded := decimal.NewFromFloat(value).Round(places)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	parts := strings.SplitN(rounded.StringFixed(places), ".", 2)
	intPart := groupThousands(parts[0])
	if len(parts) == 2 {
		return sign + intPart + "," + parts[1]
	}
	return sign + intPart
}

func groupThousands(intPart string) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte('.')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
