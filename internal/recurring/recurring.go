// Package recurring detects recurring charges in reconstructed statement
// rows: known-service matches become ParsedResults, hinted rows with an
// amount become Candidates, and both are normalised to a monthly cost.
package recurring

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidRules  = errors.New("invalid rules")
)

// CategoryOther is the category given to promoted candidates.
const CategoryOther = "other"

// DefaultConfidence stands in for a missing confidence when averaging.
const DefaultConfidence = 85

// ParsedResult is a high-confidence detection of a known service.
type ParsedResult struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Cost        decimal.Decimal `json:"cost"`
	Frequency   Frequency       `json:"frequency"`
	NextBilling string          `json:"next_billing,omitempty"`
	LastUsed    string          `json:"last_used,omitempty"`
	Confidence  *int            `json:"confidence,omitempty"`
}

// Candidate is a lower-confidence possible recurring charge that the user
// must confirm.
type Candidate struct {
	Name          string          `json:"name"`
	ReferenceText string          `json:"reference_text"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     Frequency       `json:"frequency"`
}

// Dropped counts rows the extraction pipeline rejected, by reason.
type Dropped struct {
	Malformed     int `json:"malformed"`
	NoHint        int `json:"no_hint"`
	InvalidAmount int `json:"invalid_amount"`
	ShortName     int `json:"short_name"`
	Known         int `json:"known"`
	Duplicate     int `json:"duplicate"`
	OverCap       int `json:"over_cap"`
}

func (d Dropped) Total() int {
	return d.Malformed + d.NoHint + d.InvalidAmount + d.ShortName + d.Known + d.Duplicate + d.OverCap
}
