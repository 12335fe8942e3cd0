package recurring

import (
	"github.com/shopspring/decimal"
)

// Source tells where a review entry came from.
type Source string

const (
	SourceParsed    Source = "parsed"
	SourceCandidate Source = "candidate"
)

// ReviewEntry is one row of the review list shown to the user before
// anything is saved.
type ReviewEntry struct {
	ParsedResult
	Source      Source          `json:"source"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
	// NeedsFrequency flags entries whose frequency is still unknown so the
	// user can pick one before confirming.
	NeedsFrequency bool `json:"needs_frequency"`
}

// Promote turns a candidate into a reviewable result. A candidate with no
// detectable frequency whose amount exceeds annualThreshold is assumed to
// be billed yearly.
func Promote(c Candidate, annualThreshold decimal.Decimal) ParsedResult {
	freq := c.Frequency
	if freq == FrequencyUnknown && c.Amount.GreaterThan(annualThreshold) {
		freq = FrequencyAnnual
	}

	return ParsedResult{
		Name:      c.Name,
		Category:  CategoryOther,
		Cost:      c.Amount,
		Frequency: freq,
	}
}

// NewReviewEntry wraps r with its monthly cost.
func NewReviewEntry(r ParsedResult, src Source) ReviewEntry {
	return ReviewEntry{
		ParsedResult:   r,
		Source:         src,
		MonthlyCost:    MonthlyCost(r.Cost, r.Frequency),
		NeedsFrequency: r.Frequency == FrequencyUnknown,
	}
}

// Results unwraps entries.
func Results(entries []ReviewEntry) []ParsedResult {
	out := make([]ParsedResult, len(entries))
	for i, e := range entries {
		out[i] = e.ParsedResult
	}

	return out
}
