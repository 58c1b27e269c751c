// Package phrase assembles the dialect→standard phrase table consumed by the
// decoder.
package phrase

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/ieee0824/dialectmt/corpus"
	"github.com/ieee0824/dialectmt/internal/mathutil"
)

// ControlSymbols are registered as identity phrases with probability 1 so
// that sentence markers and masked words survive decoding unchanged.
var ControlSymbols = []string{corpus.StartTag, corpus.EndTag, corpus.UnknownTag}

// Phrase is one translation option. LogProb is the natural log of the
// translation probability.
type Phrase struct {
	Source  string
	Target  string
	LogProb float64
}

// Words splits the target side into tokens.
func (p Phrase) Words() []string {
	return strings.Fields(p.Target)
}

// Table is a concurrency-safe phrase table. Registering an existing
// (source, target) pair overwrites its probability.
type Table struct {
	mu      sync.RWMutex
	sources []string
	entries map[string][]Phrase
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string][]Phrase)}
}

// Register adds or updates source→target with the given probability in
// [0, 1].
func (t *Table) Register(source, target string, prob float64) {
	lp := mathutil.LogProb(prob)

	t.mu.Lock()
	defer t.mu.Unlock()

	opts, ok := t.entries[source]
	if !ok {
		t.sources = append(t.sources, source)
	}
	for i := range opts {
		if opts[i].Target == target {
			opts[i].LogProb = lp
			return
		}
	}
	t.entries[source] = append(opts, Phrase{Source: source, Target: target, LogProb: lp})
}

// TranslationsFor returns the options for source ordered by descending
// probability. Options of equal probability keep registration order.
func (t *Table) TranslationsFor(source string) []Phrase {
	t.mu.RLock()
	opts := slices.Clone(t.entries[source])
	t.mu.RUnlock()

	slices.SortStableFunc(opts, func(a, b Phrase) int {
		switch {
		case a.LogProb > b.LogProb:
			return -1
		case a.LogProb < b.LogProb:
			return 1
		}
		return 0
	})
	return opts
}

// Has reports whether source has at least one option.
func (t *Table) Has(source string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries[source]) > 0
}

// Sources returns the registered source phrases in registration order.
func (t *Table) Sources() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.sources)
}

// Len returns the number of (source, target) entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, opts := range t.entries {
		n += len(opts)
	}
	return n
}

// Mass returns the total probability of every option of source.
func (t *Table) Mass(source string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	total := mathutil.LogZero
	for _, p := range t.entries[source] {
		total = mathutil.LogAdd(total, p.LogProb)
	}
	return math.Exp(total)
}

// WriteTSV writes one "source ||| target ||| probability" line per entry in
// registration order.
func (t *Table) WriteTSV(w io.Writer) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	bw := bufio.NewWriter(w)
	for _, src := range t.sources {
		for _, p := range t.entries[src] {
			if _, err := fmt.Fprintf(bw, "%s ||| %s ||| %.6g\n", p.Source, p.Target, math.Exp(p.LogProb)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
