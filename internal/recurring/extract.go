package recurring

import (
	"strings"

	"github.com/MrJamesThe3rd/recur/internal/statement"
)

// nameCutset is trimmed from both ends of a cleaned candidate name.
const nameCutset = " -*:/|,.#"

const minNameLength = 3

type rejection int

const (
	accepted rejection = iota
	rejectMalformed
	rejectNoHint
	rejectInvalidAmount
	rejectShortName
	rejectKnown
)

func (d *Dropped) count(r rejection) {
	switch r {
	case rejectMalformed:
		d.Malformed++
	case rejectNoHint:
		d.NoHint++
	case rejectInvalidAmount:
		d.InvalidAmount++
	case rejectShortName:
		d.ShortName++
	case rejectKnown:
		d.Known++
	}
}

// extract turns one row into a Candidate. The row must carry a recurrence
// hint and a money amount; the name is whatever precedes the first amount
// once dates and payment-rail noise are removed.
func (rs *ruleSet) extract(text string, known *KnownSet, refLimit int) (Candidate, rejection) {
	body := statement.StripDatePrefix(text)

	loc := statement.FindAmount(body)
	if loc == nil {
		return Candidate{}, rejectMalformed
	}

	if !rs.hasHint(text) {
		return Candidate{}, rejectNoHint
	}

	amount, err := ParseAmount(body[loc[0]:loc[1]])
	if err != nil {
		return Candidate{}, rejectInvalidAmount
	}

	name := rs.cleanName(body[:loc[0]])
	if len([]rune(name)) < minNameLength {
		return Candidate{}, rejectShortName
	}

	if known.Contains(name) {
		return Candidate{}, rejectKnown
	}

	return Candidate{
		Name:          name,
		ReferenceText: truncate(text, refLimit),
		Amount:        amount,
		Frequency:     rs.classifier.Classify(text),
	}, accepted
}

func (rs *ruleSet) cleanName(raw string) string {
	name := statement.StripDatePrefix(raw)

	for _, n := range rs.noise {
		name = n.ReplaceAllString(name, " ")
	}

	name = strings.Join(strings.Fields(name), " ")

	return strings.Trim(name, nameCutset)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}

	return string(runes[:limit]) + "…"
}
