package statement_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/recur/internal/statement"
)

func texts(rows []statement.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Text
	}

	return out
}

func TestReconstruct(t *testing.T) {
	type args struct {
		text string
	}

	type testCase struct {
		name string
		args args
		want []string
	}

	tests := []testCase{
		{
			name: "Single complete line",
			args: args{text: "3rd Jan Virgin Active Membership DD 92.00"},
			want: []string{"3rd Jan Virgin Active Membership DD 92.00"},
		},
		{
			name: "Description wrapped over two extra lines",
			args: args{text: "3rd Jan\nNETFLIX.COM\nSUBSCRIPTION 15.99\n4th Jan Tesco 12.40"},
			want: []string{
				"3rd Jan NETFLIX.COM SUBSCRIPTION 15.99",
				"4th Jan Tesco 12.40",
			},
		},
		{
			name: "Amount on first continuation line stops extension",
			args: args{text: "05/01/2025 Spotify Premium\n10.99\nOpening balance 100.00"},
			want: []string{
				"05/01/2025 Spotify Premium 10.99",
				"Opening balance 100.00",
			},
		},
		{
			name: "Extension stops at next date line",
			args: args{text: "3rd Jan Gym\n4th Jan Spotify Premium 10.99"},
			want: []string{
				"3rd Jan Gym",
				"4th Jan Spotify Premium 10.99",
			},
		},
		{
			name: "Undated lines accumulate until an amount",
			args: args{text: "Balance\nbrought forward\n1,234.56\nTrailing footer"},
			want: []string{
				"Balance brought forward 1,234.56",
				"Trailing footer",
			},
		},
		{
			name: "Page breaks and blank lines",
			args: args{text: "\n\n3rd Jan Audible membership 7.99\f\r\n  \n4th Jan Dropbox plan 9.99\n"},
			want: []string{
				"3rd Jan Audible membership 7.99",
				"4th Jan Dropbox plan 9.99",
			},
		},
		{
			name: "Empty input",
			args: args{text: "   \n\n"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statement.Reconstruct(tt.args.text)
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestReconstruct_ConsumesEveryLineOnce(t *testing.T) {
	text := "Header line\n3rd Jan\nA\nB\nC\n4th Jan D 1.00\nE\nF 2.00\nG"

	rows := statement.Reconstruct(text)

	var words []string
	for _, r := range rows {
		require.NotEmpty(t, r.Text)
		words = append(words, strings.Fields(r.Text)...)
	}

	var want []string
	for _, l := range statement.Lines(text) {
		want = append(want, strings.Fields(l)...)
	}

	assert.Equal(t, want, words)
}

func TestIsDateLike(t *testing.T) {
	tests := map[string]bool{
		"3rd Jan Netflix":        true,
		"21st February 2025 Gym": true,
		"03/01/2025 Spotify":     true,
		"3-1-25 Spotify":         true,
		"03.01.2025 Spotify":     true,
		"Jan 3rd Spotify":        false,
		"Netflix 15.99":          false,
		"12.50":                  false,
		"3 Jan Netflix":          false,
	}

	for line, want := range tests {
		t.Run(line, func(t *testing.T) {
			assert.Equal(t, want, statement.IsDateLike(line))
		})
	}
}

func TestEndsWithAmount(t *testing.T) {
	assert.True(t, statement.EndsWithAmount("Netflix 15.99"))
	assert.True(t, statement.EndsWithAmount("Salary 1,250.00 CR"))
	assert.False(t, statement.EndsWithAmount("Netflix 15.99 ref 123"))
	assert.False(t, statement.EndsWithAmount("03.01.25"))
}

func TestStripDatePrefix(t *testing.T) {
	assert.Equal(t, "Netflix 15.99", statement.StripDatePrefix("3rd Jan Netflix 15.99"))
	assert.Equal(t, "Netflix 15.99", statement.StripDatePrefix("03/01/2025 04/01/2025 Netflix 15.99"))
	assert.Equal(t, "Netflix 15.99", statement.StripDatePrefix("Netflix 15.99"))
}

func TestParseDate(t *testing.T) {
	today := time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC)

	type testCase struct {
		name   string
		text   string
		want   time.Time
		wantOK bool
	}

	tests := []testCase{
		{name: "Numeric four digit year", text: "05/11/2024 Gym 30.00", want: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Numeric two digit year", text: "5-11-24 Gym", want: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Ordinal with year", text: "3rd March 2023 Gym", want: time.Date(2023, 3, 3, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Ordinal this year", text: "3rd Jan Gym", want: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Ordinal after today is last year", text: "20th Dec Gym", want: time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "Impossible date", text: "31/02/2025 Gym", wantOK: false},
		{name: "No date", text: "Gym 30.00", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := statement.ParseDate(tt.text, today)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
