package recurring

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	weeksPerMonth = decimal.RequireFromString("4.33")
)

// MonthlyCost converts a per-period amount to its monthly equivalent,
// rounded half-up to two decimals. Annual amounts are divided by 12, weekly
// amounts multiplied by 4.33 and anything else is taken as already monthly.
// Non-positive amounts cost nothing.
func MonthlyCost(amount decimal.Decimal, f Frequency) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}

	switch f {
	case FrequencyAnnual:
		return amount.Div(monthsPerYear).Round(2)
	case FrequencyWeekly:
		return amount.Mul(weeksPerMonth).Round(2)
	default:
		return amount.Round(2)
	}
}

// FromMonthly is the inverse of MonthlyCost: it turns a monthly amount back
// into the per-period amount for f.
func FromMonthly(monthly decimal.Decimal, f Frequency) decimal.Decimal {
	switch f {
	case FrequencyAnnual:
		return monthly.Mul(monthsPerYear)
	case FrequencyWeekly:
		return monthly.Div(weeksPerMonth)
	default:
		return monthly
	}
}

// ParseAmount parses a statement money token such as "1,234.56". Thousands
// separators are dropped. Zero and negative amounts are rejected.
func ParseAmount(token string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(token), ",", "")

	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, token)
	}

	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, token)
	}

	return amount, nil
}
