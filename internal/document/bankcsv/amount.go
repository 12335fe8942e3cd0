package bankcsv

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyStripper = strings.NewReplacer("€", "", "£", "", "$", "", "EUR", "", "GBP", "", " ", "", " ", "")

// parseAmount parses a signed amount written in the given style.
// Examples: "1.234,56" (comma) -> 1234.56, "-£1,234.56" (point) -> -1234.56.
func parseAmount(s string, style decimalStyle) (decimal.Decimal, error) {
	clean := currencyStripper.Replace(s)

	switch style {
	case decimalComma:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case decimalPoint:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
