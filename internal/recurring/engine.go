package recurring

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/recur/internal/statement"
)

// Options tune an Engine. Zero fields take the defaults below.
type Options struct {
	MaxCandidates     int
	ReferenceLimit    int
	AnnualThreshold   decimal.Decimal
	DefaultConfidence int
	Now               func() time.Time
}

const (
	defaultMaxCandidates  = 25
	defaultReferenceLimit = 120
)

var defaultAnnualThreshold = decimal.NewFromInt(1000)

func (o Options) withDefaults() Options {
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = defaultMaxCandidates
	}

	if o.ReferenceLimit <= 0 {
		o.ReferenceLimit = defaultReferenceLimit
	}

	if !o.AnnualThreshold.IsPositive() {
		o.AnnualThreshold = defaultAnnualThreshold
	}

	if o.DefaultConfidence <= 0 {
		o.DefaultConfidence = DefaultConfidence
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	return o
}

// Engine runs the extraction pipeline over statement text. It holds only
// compiled rules and options and is safe for concurrent use.
type Engine struct {
	rules *ruleSet
	opts  Options
}

func NewEngine(rules Rules, opts Options) (*Engine, error) {
	rs, err := compileRules(rules)
	if err != nil {
		return nil, err
	}

	return &Engine{rules: rs, opts: opts.withDefaults()}, nil
}

// Result is the outcome of one Parse call.
type Result struct {
	Rows int `json:"rows"`
	// Results are known-service detections not yet tracked.
	Results []ParsedResult `json:"results"`
	// Matched are known-service detections of names already in the known
	// set. They are not offered for review but carry fresh billing dates.
	Matched    []ParsedResult `json:"matched"`
	Candidates []Candidate    `json:"candidates"`
	// Entries are what the user reviews. Renames applied after parsing
	// land here only; Results and Candidates keep the extracted names.
	Entries []ReviewEntry `json:"entries"`
	Stats   Stats         `json:"stats"`
	Dropped Dropped       `json:"dropped"`
}

// Parse reconstructs rows from text and runs the pipeline over them.
func (e *Engine) Parse(text string, known *KnownSet) *Result {
	return e.ParseRows(statement.Reconstruct(text), known)
}

// ParseRows runs detection, candidate extraction, deduplication and
// promotion over rows. known holds already-tracked names; it is not
// modified.
func (e *Engine) ParseRows(rows []statement.Row, known *KnownSet) *Result {
	today := e.opts.Now()
	res := &Result{Rows: len(rows)}

	detected := make([]bool, len(rows))

	var results []ParsedResult

	for i, row := range rows {
		r, ok := e.rules.detect(row.Text, today)
		if !ok {
			continue
		}

		detected[i] = true

		if known.Contains(r.Name) {
			res.Matched = append(res.Matched, r)
			continue
		}

		results = append(results, r)
	}

	res.Results = UniqueResults(results)
	res.Dropped.Duplicate += len(results) - len(res.Results)

	batchKnown := known.Clone()
	for _, r := range res.Results {
		batchKnown.Add(r.Name)
	}

	for _, r := range res.Matched {
		batchKnown.Add(r.Name)
	}

	var candidates []Candidate

	for i, row := range rows {
		if detected[i] {
			continue
		}

		c, reason := e.rules.extract(row.Text, batchKnown, e.opts.ReferenceLimit)
		if reason != accepted {
			res.Dropped.count(reason)
			continue
		}

		candidates = append(candidates, c)
	}

	unique := UniqueCandidates(candidates)
	res.Dropped.Duplicate += len(candidates) - len(unique)

	if len(unique) > e.opts.MaxCandidates {
		res.Dropped.OverCap = len(unique) - e.opts.MaxCandidates
		unique = unique[:e.opts.MaxCandidates]
	}

	res.Candidates = unique

	res.Entries = make([]ReviewEntry, 0, len(res.Results)+len(res.Candidates))
	for _, r := range res.Results {
		res.Entries = append(res.Entries, NewReviewEntry(r, SourceParsed))
	}

	for _, c := range res.Candidates {
		res.Entries = append(res.Entries, NewReviewEntry(Promote(c, e.opts.AnnualThreshold), SourceCandidate))
	}

	res.Stats = e.Stats(res.Entries)

	slog.Debug("statement parsed",
		"rows", res.Rows,
		"results", len(res.Results),
		"matched", len(res.Matched),
		"candidates", len(res.Candidates),
		"dropped", res.Dropped.Total(),
	)

	return res
}

// Stats aggregates entries with the engine's default confidence.
func (e *Engine) Stats(entries []ReviewEntry) Stats {
	return Aggregate(Results(entries), e.opts.DefaultConfidence)
}

// Rebuild deduplicates res.Entries again and refreshes the stats. Call it
// after entries were renamed.
func (e *Engine) Rebuild(res *Result) {
	unique := UniqueEntries(res.Entries)
	res.Dropped.Duplicate += len(res.Entries) - len(unique)
	res.Entries = unique
	res.Stats = e.Stats(res.Entries)
}

// Classify infers a frequency with the engine's rules.
func (e *Engine) Classify(text string) Frequency {
	return e.rules.classifier.Classify(text)
}
