package recurring

import (
	"github.com/shopspring/decimal"
)

// Stats summarises a parsed batch.
type Stats struct {
	DetectedCount int             `json:"detected_count"`
	MonthlyTotal  decimal.Decimal `json:"monthly_total"`
	AnnualTotal   decimal.Decimal `json:"annual_total"`
	AvgConfidence int             `json:"avg_confidence"`
}

// Aggregate sums the monthly-normalised cost of results, totals the raw
// amounts of annual results and averages confidence, using
// defaultConfidence where a result has none. An empty batch has zero totals
// and zero average.
func Aggregate(results []ParsedResult, defaultConfidence int) Stats {
	monthly := decimal.Zero
	annual := decimal.Zero
	confidence := int64(0)

	for _, r := range results {
		monthly = monthly.Add(MonthlyCost(r.Cost, r.Frequency))

		if r.Frequency == FrequencyAnnual {
			annual = annual.Add(r.Cost.Round(2))
		}

		if r.Confidence != nil {
			confidence += int64(*r.Confidence)
		} else {
			confidence += int64(defaultConfidence)
		}
	}

	avg := decimal.NewFromInt(confidence).
		Div(decimal.NewFromInt(int64(max(1, len(results))))).
		Round(0)

	return Stats{
		DetectedCount: len(results),
		MonthlyTotal:  monthly,
		AnnualTotal:   annual,
		AvgConfidence: int(avg.IntPart()),
	}
}
