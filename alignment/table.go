// Package alignment builds position-aligned dialect→standard co-occurrence
// counts from a length-matched parallel corpus.
package alignment

import "slices"

// Candidate is one observed translation of a key with its count.
type Candidate struct {
	Target string
	Count  int
}

// Weighted is a candidate with its relative frequency among all candidates
// of the same key.
type Weighted struct {
	Candidate
	Probability float64
}

// Table maps a dialect key to its observed standard translations. Keys and
// candidates keep first-seen order so that iteration is deterministic.
// A Table is not safe for concurrent mutation.
type Table struct {
	keys    []string
	entries map[string][]Candidate
	// targets counts how many (key, candidate) entries carry each target
	// string, answering "is this a known standard word" in O(1).
	targets map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		entries: make(map[string][]Candidate),
		targets: make(map[string]int),
	}
}

// Add records n observations of key translated as target.
func (t *Table) Add(key, target string, n int) {
	cands, ok := t.entries[key]
	if !ok {
		t.keys = append(t.keys, key)
	}
	for i := range cands {
		if cands[i].Target == target {
			cands[i].Count += n
			return
		}
	}
	t.entries[key] = append(cands, Candidate{Target: target, Count: n})
	t.targets[target]++
}

// InsertIfAbsent registers key with a single candidate target of count 1.
// Existing keys are left untouched. It reports whether the key was added.
func (t *Table) InsertIfAbsent(key, target string) bool {
	if _, ok := t.entries[key]; ok {
		return false
	}
	t.Add(key, target, 1)
	return true
}

// Has reports whether key is a known dialect key.
func (t *Table) Has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// HasTarget reports whether word appears as a candidate of any key.
func (t *Table) HasTarget(word string) bool {
	return t.targets[word] > 0
}

// Candidates returns a copy of the candidates for key in first-seen order.
func (t *Table) Candidates(key string) []Candidate {
	return slices.Clone(t.entries[key])
}

// Keys returns the keys in first-seen order.
func (t *Table) Keys() []string {
	return slices.Clone(t.keys)
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.keys)
}

// Probability returns the relative frequency of target among the candidates
// of key, or 0 when either is unknown.
func (t *Table) Probability(key, target string) float64 {
	return Probability(t.entries[key], target)
}

// Distribution returns every candidate of key with its relative frequency.
// The probabilities sum to 1 for any known key.
func (t *Table) Distribution(key string) []Weighted {
	cands := t.entries[key]
	total := Total(cands)
	if total == 0 {
		return nil
	}
	out := make([]Weighted, len(cands))
	for i, c := range cands {
		out[i] = Weighted{Candidate: c, Probability: float64(c.Count) / float64(total)}
	}
	return out
}

// Best returns the most frequent candidate of key. Ties go to the candidate
// seen first.
func (t *Table) Best(key string) (string, bool) {
	cands := t.entries[key]
	if len(cands) == 0 {
		return "", false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Count > best.Count {
			best = c
		}
	}
	return best.Target, true
}

// Equal reports whether both tables hold the same keys and candidates in
// the same order.
func (t *Table) Equal(o *Table) bool {
	if !slices.Equal(t.keys, o.keys) {
		return false
	}
	for _, k := range t.keys {
		if !slices.Equal(t.entries[k], o.entries[k]) {
			return false
		}
	}
	return true
}

// Total sums the counts of cands.
func Total(cands []Candidate) int {
	total := 0
	for _, c := range cands {
		total += c.Count
	}
	return total
}

// Probability returns count(target)/total over cands, or 0 when target is
// not among them.
func Probability(cands []Candidate, target string) float64 {
	total := Total(cands)
	if total == 0 {
		return 0
	}
	for _, c := range cands {
		if c.Target == target {
			return float64(c.Count) / float64(total)
		}
	}
	return 0
}
