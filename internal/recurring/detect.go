package recurring

import (
	"time"

	"github.com/MrJamesThe3rd/recur/internal/billing"
	"github.com/MrJamesThe3rd/recur/internal/statement"
)

// guessPenalty is taken off a service's confidence when the row itself says
// nothing about the billing frequency and the service default is assumed.
const guessPenalty = 10

// detect matches a row against the known-service table. The row must carry
// a positive amount. The row's leading date, when present, becomes LastUsed
// and is projected forward into NextBilling.
func (rs *ruleSet) detect(text string, today time.Time) (ParsedResult, bool) {
	body := statement.StripDatePrefix(text)

	loc := statement.FindAmount(body)
	if loc == nil {
		return ParsedResult{}, false
	}

	amount, err := ParseAmount(body[loc[0]:loc[1]])
	if err != nil {
		return ParsedResult{}, false
	}

	for _, s := range rs.services {
		if !s.pattern.MatchString(text) {
			continue
		}

		freq := rs.classifier.Classify(text)
		confidence := s.Confidence

		if freq == FrequencyUnknown {
			freq = s.Frequency
			confidence -= guessPenalty
		}

		if freq == "" {
			freq = FrequencyUnknown
		}

		confidence = max(0, min(100, confidence))

		res := ParsedResult{
			Name:       s.Name,
			Category:   s.Category,
			Cost:       amount,
			Frequency:  freq,
			Confidence: &confidence,
		}

		if d, ok := statement.ParseDate(text, today); ok {
			res.LastUsed = d.Format(time.DateOnly)
			res.NextBilling = projectNext(d, freq, today).Format(time.DateOnly)
		}

		return res, true
	}

	return ParsedResult{}, false
}

func projectNext(anchor time.Time, f Frequency, today time.Time) time.Time {
	if f == FrequencyAnnual {
		return billing.ProjectNextYearly(anchor, today)
	}

	return billing.ProjectNext(anchor, today)
}
