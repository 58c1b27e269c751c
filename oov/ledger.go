package oov

import (
	"log/slog"
	"slices"
	"sync"
)

// RepairRecord is one successful rewrite of an out-of-vocabulary word.
type RepairRecord struct {
	Original string
	Repaired string
}

// Record notes a word that was missing from the dialect vocabulary and
// whether it was recovered from the corpus vocabulary.
type Record struct {
	Word      string
	Recovered bool
}

// WordCount is an unresolved word with the number of times it was seen.
type WordCount struct {
	Word  string
	Count int
}

// Stats summarizes a ledger.
type Stats struct {
	Words      int     // out-of-vocabulary words seen
	Recovered  int     // words recovered by absorption or repair
	Unresolved int     // distinct words left unresolved
	Rate       float64 // recovered share in percent
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("oov_words", s.Words),
		slog.Int("recovered", s.Recovered),
		slog.Int("unresolved", s.Unresolved),
		slog.Float64("recovered_pct", s.Rate),
	)
}

// Ledger accumulates out-of-vocabulary statistics across translations. It is
// safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	repairs []RepairRecord
	records []Record
	tally   map[string]int
	order   []string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{tally: make(map[string]int)}
}

func (l *Ledger) recordRepair(r RepairRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repairs = append(l.repairs, r)
	l.records = append(l.records, Record{Word: r.Original, Recovered: true})
}

func (l *Ledger) recordRecovered(word string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, Record{Word: word, Recovered: true})
}

func (l *Ledger) recordUnresolved(word string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, Record{Word: word})
	if _, ok := l.tally[word]; !ok {
		l.order = append(l.order, word)
	}
	l.tally[word]++
}

// Repairs returns every repair in the order it happened.
func (l *Ledger) Repairs() []RepairRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.repairs)
}

// Records returns every out-of-vocabulary observation.
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.records)
}

// Unresolved returns the unresolved words by descending count. Ties keep
// first-seen order.
func (l *Ledger) Unresolved() []WordCount {
	l.mu.Lock()
	out := make([]WordCount, len(l.order))
	for i, w := range l.order {
		out[i] = WordCount{Word: w, Count: l.tally[w]}
	}
	l.mu.Unlock()

	slices.SortStableFunc(out, func(a, b WordCount) int { return b.Count - a.Count })
	return out
}

// Stats summarizes the ledger.
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Stats{Words: len(l.records), Unresolved: len(l.order)}
	for _, r := range l.records {
		if r.Recovered {
			s.Recovered++
		}
	}
	if s.Words > 0 {
		s.Rate = 100 * float64(s.Recovered) / float64(s.Words)
	}
	return s
}
