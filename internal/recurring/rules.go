package recurring

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rules is the tunable vocabulary of the extraction pipeline. All patterns
// are regular expressions matched case-insensitively.
type Rules struct {
	// Hints mark a row as a possible recurring charge.
	Hints []string `yaml:"hints"`
	// Noise tokens are removed from candidate names.
	Noise []string `yaml:"noise"`
	// Frequencies are tried in order; the first match wins.
	Frequencies []FrequencyRule `yaml:"frequencies"`
	// Services are well-known subscriptions detected with high confidence.
	Services []ServiceRule `yaml:"services"`
}

// ServiceRule maps a statement pattern to a known service.
type ServiceRule struct {
	Name       string    `yaml:"name"`
	Category   string    `yaml:"category"`
	Pattern    string    `yaml:"pattern"`
	Frequency  Frequency `yaml:"frequency"`
	Confidence int       `yaml:"confidence"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() Rules {
	return Rules{
		Hints: []string{
			`premium`,
			`\bmember(?:s|ship)?\b`,
			`subscri(?:be|bed|ption)`,
			`auto[\s-]?renew`,
			`direct\s+debit`,
			`standing\s+order`,
			`annual`,
			`renewal`,
			`\bplan\b`,
			`monthly`,
			`yearly`,
			`recurring`,
		},
		Noise: []string{
			`\bdirect\s+debit\b`,
			`\bmastercard\b`,
			`\bvisa\b`,
			`\bcard\b`,
			`\bpos\b`,
			`\bdd\b`,
			// Currency marker left between the name and the amount.
			`(?:[£$€]|\b(?:gbp|usd|eur))\s*$`,
		},
		Frequencies: []FrequencyRule{
			{Frequency: FrequencyAnnual, Patterns: []string{`annual`, `yearly`, `\byr\b`, `\byear\b`, `per\s+year`}},
			{Frequency: FrequencyMonthly, Patterns: []string{`monthly`, `/m\b`, `/mo\b`, `/month\b`, `per\s+month`}},
			{Frequency: FrequencyWeekly, Patterns: []string{`weekly`, `/wk\b`, `/week\b`, `per\s+week`}},
		},
		Services: []ServiceRule{
			{Name: "Netflix", Category: "entertainment", Pattern: `netflix`, Frequency: FrequencyMonthly, Confidence: 95},
			{Name: "Spotify", Category: "music", Pattern: `spotify`, Frequency: FrequencyMonthly, Confidence: 95},
			{Name: "Disney+", Category: "entertainment", Pattern: `disney\s*(?:\+|plus)`, Frequency: FrequencyMonthly, Confidence: 90},
			{Name: "Amazon Prime", Category: "shopping", Pattern: `(?:amazon|amzn)\s*prime|prime\s+video`, Frequency: FrequencyMonthly, Confidence: 90},
			{Name: "YouTube Premium", Category: "entertainment", Pattern: `youtube\s*premium|google\s*\*\s*youtube`, Frequency: FrequencyMonthly, Confidence: 90},
			{Name: "Apple iCloud", Category: "cloud", Pattern: `icloud|apple\.com/bill`, Frequency: FrequencyMonthly, Confidence: 85},
			{Name: "Microsoft 365", Category: "software", Pattern: `(?:microsoft|office)\s*365`, Frequency: FrequencyAnnual, Confidence: 85},
			{Name: "Adobe", Category: "software", Pattern: `adobe`, Frequency: FrequencyMonthly, Confidence: 85},
			{Name: "Dropbox", Category: "cloud", Pattern: `dropbox`, Frequency: FrequencyMonthly, Confidence: 90},
			{Name: "Audible", Category: "books", Pattern: `audible`, Frequency: FrequencyMonthly, Confidence: 90},
			{Name: "PureGym", Category: "fitness", Pattern: `pure\s*gym`, Frequency: FrequencyMonthly, Confidence: 90},
			{Name: "NOW", Category: "entertainment", Pattern: `\bnow\s*tv\b|\bnow\s+entertainment\b`, Frequency: FrequencyMonthly, Confidence: 85},
			{Name: "Sky", Category: "utilities", Pattern: `\bsky\s+(?:digital|tv|broadband|mobile|uk)\b`, Frequency: FrequencyMonthly, Confidence: 85},
			{Name: "ChatGPT", Category: "software", Pattern: `chatgpt|openai`, Frequency: FrequencyMonthly, Confidence: 85},
		},
	}
}

// LoadRules reads a YAML rules file. Sections the file leaves out keep
// their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	rules := DefaultRules()

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	if _, err := compileRules(rules); err != nil {
		return Rules{}, err
	}

	return rules, nil
}

type compiledService struct {
	ServiceRule
	pattern *regexp.Regexp
}

type ruleSet struct {
	hints      []*regexp.Regexp
	noise      []*regexp.Regexp
	classifier *Classifier
	services   []compiledService
}

func compileRules(r Rules) (*ruleSet, error) {
	hints, err := compileAll(r.Hints)
	if err != nil {
		return nil, err
	}

	// Longer noise tokens first so "direct debit" goes before "dd".
	noise := append([]string(nil), r.Noise...)
	sort.SliceStable(noise, func(i, j int) bool { return len(noise[i]) > len(noise[j]) })

	noiseRes, err := compileAll(noise)
	if err != nil {
		return nil, err
	}

	classifier, err := NewClassifier(r.Frequencies)
	if err != nil {
		return nil, err
	}

	services := make([]compiledService, 0, len(r.Services))

	for _, s := range r.Services {
		if s.Name == "" || s.Pattern == "" {
			return nil, fmt.Errorf("%w: service needs a name and a pattern", ErrInvalidRules)
		}

		if _, err := ParseFrequency(string(s.Frequency)); err != nil {
			return nil, fmt.Errorf("%w: service %q: %w", ErrInvalidRules, s.Name, err)
		}

		re, err := regexp.Compile("(?i)" + s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: service %q: %w", ErrInvalidRules, s.Name, err)
		}

		if s.Category == "" {
			s.Category = CategoryOther
		}

		services = append(services, compiledService{ServiceRule: s, pattern: re})
	}

	return &ruleSet{
		hints:      hints,
		noise:      noiseRes,
		classifier: classifier,
		services:   services,
	}, nil
}

func (rs *ruleSet) hasHint(text string) bool {
	for _, h := range rs.hints {
		if h.MatchString(text) {
			return true
		}
	}

	return false
}
