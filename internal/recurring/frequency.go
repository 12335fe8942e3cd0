package recurring

import (
	"fmt"
	"regexp"
)

// Frequency is how often a charge recurs.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyAnnual  Frequency = "annual"
	FrequencyUnknown Frequency = "unknown"
)

// ParseFrequency maps a stored or user-supplied value to a Frequency. Empty
// input is unknown.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(s); f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyAnnual, FrequencyUnknown:
		return f, nil
	case "":
		return FrequencyUnknown, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// FrequencyRule lists the patterns that mark text as having a frequency.
// Rules are evaluated in order and the first match wins.
type FrequencyRule struct {
	Frequency Frequency `yaml:"frequency"`
	Patterns  []string  `yaml:"patterns"`
}

type compiledFrequency struct {
	frequency Frequency
	patterns  []*regexp.Regexp
}

// Classifier infers a Frequency from free text.
type Classifier struct {
	rules []compiledFrequency
}

// NewClassifier compiles the given rules. Patterns are case-insensitive.
func NewClassifier(rules []FrequencyRule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledFrequency, 0, len(rules))}

	for _, r := range rules {
		if _, err := ParseFrequency(string(r.Frequency)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
		}

		patterns, err := compileAll(r.Patterns)
		if err != nil {
			return nil, err
		}

		c.rules = append(c.rules, compiledFrequency{frequency: r.Frequency, patterns: patterns})
	}

	return c, nil
}

// Classify returns the first frequency whose patterns match text, or
// FrequencyUnknown.
func (c *Classifier) Classify(text string) Frequency {
	for _, r := range c.rules {
		for _, p := range r.patterns {
			if p.MatchString(text) {
				return r.frequency
			}
		}
	}

	return FrequencyUnknown
}

var defaultClassifier = mustClassifier(DefaultRules().Frequencies)

// Classify infers a Frequency from text using the default rules.
func Classify(text string) Frequency {
	return defaultClassifier.Classify(text)
}

func mustClassifier(rules []FrequencyRule) *Classifier {
	c, err := NewClassifier(rules)
	if err != nil {
		panic(err)
	}

	return c
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %w", ErrInvalidRules, p, err)
		}

		out = append(out, re)
	}

	return out, nil
}
