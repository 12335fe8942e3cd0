package recurring

import (
	"strings"

	"github.com/shopspring/decimal"
)

// fuzzyTolerance is the relative amount difference under which two charges
// with the same name are considered the same subscription.
var fuzzyTolerance = decimal.RequireFromString("0.10")

// NormalizeName lowercases and trims a name for comparison.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// DedupKey identifies a (name, amount) pair within a batch.
func DedupKey(name string, amount decimal.Decimal) string {
	return NormalizeName(name) + "__" + amount.StringFixed(2)
}

// UniqueResults keeps the first ParsedResult per DedupKey, preserving order.
func UniqueResults(results []ParsedResult) []ParsedResult {
	seen := make(map[string]struct{}, len(results))
	out := make([]ParsedResult, 0, len(results))

	for _, r := range results {
		key := DedupKey(r.Name, r.Cost)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out
}

// UniqueCandidates keeps the first Candidate per DedupKey, preserving order.
func UniqueCandidates(candidates []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		key := DedupKey(c.Name, c.Amount)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, c)
	}

	return out
}

// UniqueEntries keeps the first ReviewEntry per DedupKey, preserving order.
func UniqueEntries(entries []ReviewEntry) []ReviewEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]ReviewEntry, 0, len(entries))

	for _, e := range entries {
		key := DedupKey(e.Name, e.Cost)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, e)
	}

	return out
}

// KnownSet holds the names a batch must not report again: already-tracked
// items and their aliases. Lookups are case-insensitive and match by
// substring containment in either direction.
type KnownSet struct {
	names []string
}

// NewKnownSet builds a set from names; blank names are ignored.
func NewKnownSet(names ...string) *KnownSet {
	k := &KnownSet{}
	k.Add(names...)

	return k
}

func (k *KnownSet) Add(names ...string) {
	for _, n := range names {
		if n = NormalizeName(n); n != "" {
			k.names = append(k.names, n)
		}
	}
}

// Contains reports whether name equals, contains or is contained in any
// known name.
func (k *KnownSet) Contains(name string) bool {
	if k == nil {
		return false
	}

	name = NormalizeName(name)
	if name == "" {
		return false
	}

	for _, known := range k.names {
		if strings.Contains(name, known) || strings.Contains(known, name) {
			return true
		}
	}

	return false
}

func (k *KnownSet) Len() int {
	if k == nil {
		return 0
	}

	return len(k.names)
}

// Clone returns an independent copy of the set.
func (k *KnownSet) Clone() *KnownSet {
	if k == nil {
		return NewKnownSet()
	}

	return &KnownSet{names: append([]string(nil), k.names...)}
}

// Charge is a named amount compared by FuzzyDuplicate. Names holds the
// display name plus any aliases.
type Charge struct {
	Names  []string
	Amount decimal.Decimal
}

// FuzzyDuplicate reports whether incoming is the same charge as existing:
// they share a name (case-insensitive, aliases included) and incoming's
// amount is within 10% of existing's.
func FuzzyDuplicate(existing, incoming Charge) bool {
	if !sharesName(existing.Names, incoming.Names) {
		return false
	}

	diff := existing.Amount.Sub(incoming.Amount).Abs()

	return diff.LessThanOrEqual(existing.Amount.Abs().Mul(fuzzyTolerance))
}

func sharesName(a, b []string) bool {
	set := make(map[string]struct{}, len(a))

	for _, n := range a {
		if n = NormalizeName(n); n != "" {
			set[n] = struct{}{}
		}
	}

	for _, n := range b {
		if _, ok := set[NormalizeName(n)]; ok {
			return true
		}
	}

	return false
}
