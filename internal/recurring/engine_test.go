package recurring_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/recur/internal/recurring"
)

func newEngine(t *testing.T) *recurring.Engine {
	t.Helper()

	e, err := recurring.NewEngine(recurring.DefaultRules(), recurring.Options{
		Now: func() time.Time { return time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	return e
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestEngine_Parse_Candidate(t *testing.T) {
	e := newEngine(t)

	res := e.Parse("3rd Jan Virgin Active Membership DD 92.00", nil)

	require.Len(t, res.Candidates, 1)
	c := res.Candidates[0]
	assert.Equal(t, "Virgin Active Membership", c.Name)
	assert.Equal(t, "3rd Jan Virgin Active Membership DD 92.00", c.ReferenceText)
	assertDecimal(t, "92.00", c.Amount)
	assert.Equal(t, recurring.FrequencyUnknown, c.Frequency)

	require.Len(t, res.Entries, 1)
	entry := res.Entries[0]
	assert.Equal(t, recurring.SourceCandidate, entry.Source)
	assert.Equal(t, recurring.CategoryOther, entry.Category)
	assert.True(t, entry.NeedsFrequency)
	assertDecimal(t, "92.00", entry.MonthlyCost)

	assert.Equal(t, 1, res.Stats.DetectedCount)
	assertDecimal(t, "92.00", res.Stats.MonthlyTotal)
	assert.True(t, res.Stats.AnnualTotal.IsZero(), "no annual entries")
	assert.Equal(t, recurring.DefaultConfidence, res.Stats.AvgConfidence)
}

func TestEngine_Parse_KnownService(t *testing.T) {
	e := newEngine(t)

	res := e.Parse("3rd Jan\nNETFLIX.COM\nSUBSCRIPTION 15.99\n4th Jan Spotify Premium monthly 10.99", nil)

	require.Len(t, res.Results, 2)
	assert.Empty(t, res.Candidates)

	netflix := res.Results[0]
	assert.Equal(t, "Netflix", netflix.Name)
	assert.Equal(t, "entertainment", netflix.Category)
	assertDecimal(t, "15.99", netflix.Cost)
	assert.Equal(t, recurring.FrequencyMonthly, netflix.Frequency)
	require.NotNil(t, netflix.Confidence)
	assert.Equal(t, 85, *netflix.Confidence, "frequency guessed from the service default")
	assert.Equal(t, "2025-01-03", netflix.LastUsed)
	assert.Equal(t, "2025-02-03", netflix.NextBilling)

	spotify := res.Results[1]
	assert.Equal(t, "Spotify", spotify.Name)
	require.NotNil(t, spotify.Confidence)
	assert.Equal(t, 95, *spotify.Confidence)
	assert.Equal(t, "2025-01-04", spotify.LastUsed)
	assert.Equal(t, "2025-02-04", spotify.NextBilling)

	assert.Equal(t, 2, res.Stats.DetectedCount)
	assertDecimal(t, "26.98", res.Stats.MonthlyTotal)
	assert.Equal(t, 90, res.Stats.AvgConfidence)
}

func TestEngine_Parse_Rejections(t *testing.T) {
	type testCase struct {
		name    string
		text    string
		known   *recurring.KnownSet
		dropped recurring.Dropped
	}

	tests := []testCase{
		{
			name:    "No recurrence hint",
			text:    "3rd Jan Tesco Stores 12.40",
			dropped: recurring.Dropped{NoHint: 1},
		},
		{
			name:    "Hint inside another word",
			text:    "3rd Jan REMEMBER A DAY FLORIST 45.00",
			dropped: recurring.Dropped{NoHint: 1},
		},
		{
			name:    "No amount",
			text:    "Membership details overleaf",
			dropped: recurring.Dropped{Malformed: 1},
		},
		{
			name:    "Name is only noise",
			text:    "3rd Jan DD 5.00 membership",
			dropped: recurring.Dropped{ShortName: 1},
		},
		{
			name:    "Already tracked",
			text:    "3rd Jan Virgin Active Membership DD 92.00",
			known:   recurring.NewKnownSet("virgin active"),
			dropped: recurring.Dropped{Known: 1},
		},
		{
			name:    "Zero amount",
			text:    "3rd Jan Gym membership 0.00",
			dropped: recurring.Dropped{InvalidAmount: 1},
		},
		{
			name:    "Same name and amount twice",
			text:    "3rd Jan Gym membership 30.00\n3rd Feb GYM Membership 30.00",
			dropped: recurring.Dropped{Duplicate: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newEngine(t).Parse(tt.text, tt.known)
			assert.Equal(t, tt.dropped, res.Dropped)
		})
	}
}

func TestEngine_Parse_KnownServiceSuppressesCandidate(t *testing.T) {
	res := newEngine(t).Parse("3rd Jan Netflix 15.99\n5th Jan Netflix premium plan upgrade 4.00", nil)

	require.Len(t, res.Results, 2, "both rows match the service table")
	assert.Empty(t, res.Candidates)
}

func TestEngine_Parse_MatchedKnownService(t *testing.T) {
	res := newEngine(t).Parse("3rd Jan Spotify 10.99\n4th Jan Adobe plan 20.00", recurring.NewKnownSet("Spotify"))

	require.Len(t, res.Matched, 1)
	assert.Equal(t, "Spotify", res.Matched[0].Name)
	assert.Equal(t, "2025-02-03", res.Matched[0].NextBilling)

	require.Len(t, res.Results, 1)
	assert.Equal(t, "Adobe", res.Results[0].Name)
}

func TestEngine_Parse_CandidateCap(t *testing.T) {
	var b strings.Builder
	for i := range 30 {
		fmt.Fprintf(&b, "%dth Jan Club %c membership %d.00\n", 4+i%20, 'A'+rune(i), i+1)
	}

	res := newEngine(t).Parse(b.String(), nil)

	require.Len(t, res.Candidates, 25)
	assert.Equal(t, "Club A membership", res.Candidates[0].Name)
	assert.Equal(t, "Club Y membership", res.Candidates[24].Name)
	assert.Equal(t, 5, res.Dropped.OverCap)
}

func TestEngine_Parse_AnnualPromotion(t *testing.T) {
	res := newEngine(t).Parse("3rd Jan Home insurance plan 1,200.00\n4th Jan Cloud storage plan 999.00", nil)

	require.Len(t, res.Entries, 2)

	assert.Equal(t, recurring.FrequencyAnnual, res.Entries[0].Frequency)
	assertDecimal(t, "100.00", res.Entries[0].MonthlyCost)
	assert.False(t, res.Entries[0].NeedsFrequency)

	assert.Equal(t, recurring.FrequencyUnknown, res.Entries[1].Frequency)
	assertDecimal(t, "999.00", res.Entries[1].MonthlyCost)

	assertDecimal(t, "1099.00", res.Stats.MonthlyTotal)
	assertDecimal(t, "1200.00", res.Stats.AnnualTotal)
}

func TestEngine_Parse_ReferenceTextTruncated(t *testing.T) {
	long := "3rd Jan Wine club membership 25.00 " + strings.Repeat("x", 200)

	res := newEngine(t).Parse(long, nil)

	require.Len(t, res.Candidates, 1)
	ref := res.Candidates[0].ReferenceText
	assert.Equal(t, 121, len([]rune(ref)))
	assert.True(t, strings.HasSuffix(ref, "…"))
}

func TestEngine_Parse_Empty(t *testing.T) {
	res := newEngine(t).Parse("", nil)

	assert.Zero(t, res.Rows)
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.Stats.DetectedCount)
	assert.Zero(t, res.Stats.AvgConfidence)
	assert.True(t, res.Stats.MonthlyTotal.IsZero())
}

func TestNewEngine_InvalidRules(t *testing.T) {
	rules := recurring.DefaultRules()
	rules.Hints = append(rules.Hints, "(unclosed")

	_, err := recurring.NewEngine(rules, recurring.Options{})
	assert.ErrorIs(t, err, recurring.ErrInvalidRules)
}

func TestEngine_Parse_DedupOrderIndependent(t *testing.T) {
	lines := []string{
		"3rd Jan Gym membership 30.00",
		"4th Jan Wine club membership 25.00",
		"5th Jan GYM MEMBERSHIP 30.00",
		"6th Jan Gym membership 32.00",
		"7th Jan Wine Club Membership 25.00",
	}

	keys := func(text string) []string {
		var out []string
		for _, c := range newEngine(t).Parse(text, nil).Candidates {
			out = append(out, recurring.DedupKey(c.Name, c.Amount))
		}

		return out
	}

	forward := keys(strings.Join(lines, "\n"))

	reversed := make([]string, len(lines))
	for i, l := range lines {
		reversed[len(lines)-1-i] = l
	}

	backward := keys(strings.Join(reversed, "\n"))

	assert.Len(t, forward, 3)
	assert.ElementsMatch(t, forward, backward)
}

func TestEngine_Parse_CurrencyMarker(t *testing.T) {
	type testCase struct {
		name     string
		text     string
		wantName string
	}

	tests := []testCase{
		{
			name:     "Pound sign",
			text:     "3rd Jan Virgin Active Membership DD 92.00\n4th Jan Virgin Active Membership DD £92.00",
			wantName: "Virgin Active Membership",
		},
		{
			name:     "Dollar sign",
			text:     "03/01/2025 Gym Membership $29.99\n03/02/2025 Gym Membership 29.99",
			wantName: "Gym Membership",
		},
		{
			name:     "Currency code",
			text:     "3rd Jan Wine club membership EUR 25.00\n3rd Feb Wine club membership 25.00",
			wantName: "Wine club membership",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newEngine(t).Parse(tt.text, nil)

			require.Len(t, res.Candidates, 1)
			assert.Equal(t, tt.wantName, res.Candidates[0].Name)
			assert.Equal(t, 1, res.Dropped.Duplicate)
		})
	}
}
