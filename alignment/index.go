package alignment

import (
	"slices"
	"strings"

	"github.com/ieee0824/dialectmt/corpus"
)

// JointSeparator joins the combined tokens of a joint n-gram key.
const JointSeparator = " | "

// AlignedToken is a dialect token paired with the standard token at the
// same position.
type AlignedToken struct {
	Dialect  string
	Standard string
}

// Combined renders the pair as a single "dialect standard" token.
func (a AlignedToken) Combined() string {
	return a.Dialect + " " + a.Standard
}

// Align pairs the tokens of p by position. It returns nil when the sides
// have different lengths or are empty.
func Align(p corpus.Pair) []AlignedToken {
	dialect, standard := p.Tokens()
	if len(dialect) == 0 || len(dialect) != len(standard) {
		return nil
	}
	out := make([]AlignedToken, len(dialect))
	for i := range dialect {
		out[i] = AlignedToken{Dialect: dialect[i], Standard: standard[i]}
	}
	return out
}

// Counts is an insertion-ordered frequency map.
type Counts struct {
	keys   []string
	counts map[string]int
}

func newCounts() *Counts {
	return &Counts{counts: make(map[string]int)}
}

func (c *Counts) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

// Count returns the frequency of key.
func (c *Counts) Count(key string) int { return c.counts[key] }

// Keys returns the keys in first-seen order.
func (c *Counts) Keys() []string { return slices.Clone(c.keys) }

// Len returns the number of distinct keys.
func (c *Counts) Len() int { return len(c.keys) }

func (c *Counts) equal(o *Counts) bool {
	if !slices.Equal(c.keys, o.keys) {
		return false
	}
	for _, k := range c.keys {
		if c.counts[k] != o.counts[k] {
			return false
		}
	}
	return true
}

// Index holds the word alignment counts of a corpus. Unigram keys are bare
// dialect words; bigram and trigram keys are space-joined windows over the
// sentence wrapped in <s> and </s> on both sides.
type Index struct {
	Unigrams *Table
	Bigrams  *Table
	Trigrams *Table

	// JointBigrams and JointTrigrams count windows of combined
	// "dialect standard" tokens, joined by JointSeparator. They feed the
	// build statistics only; translation never reads them.
	JointBigrams  *Counts
	JointTrigrams *Counts

	pairs int
}

// New returns an empty index.
func New() *Index {
	return &Index{
		Unigrams:      NewTable(),
		Bigrams:       NewTable(),
		Trigrams:      NewTable(),
		JointBigrams:  newCounts(),
		JointTrigrams: newCounts(),
	}
}

// Build indexes every pair. Pairs that are not length-matched are skipped.
func Build(pairs []corpus.Pair) *Index {
	idx := New()
	for _, p := range pairs {
		idx.Add(p)
	}
	return idx
}

// Add indexes one pair and reports whether it was length-matched.
func (idx *Index) Add(p corpus.Pair) bool {
	aligned := Align(p)
	if aligned == nil {
		return false
	}

	for _, a := range aligned {
		idx.Unigrams.Add(a.Dialect, a.Standard, 1)
	}

	tagged := make([]AlignedToken, 0, len(aligned)+2)
	tagged = append(tagged, AlignedToken{corpus.StartTag, corpus.StartTag})
	tagged = append(tagged, aligned...)
	tagged = append(tagged, AlignedToken{corpus.EndTag, corpus.EndTag})

	idx.addWindows(idx.Bigrams, idx.JointBigrams, tagged, 2)
	idx.addWindows(idx.Trigrams, idx.JointTrigrams, tagged, 3)
	idx.pairs++
	return true
}

func (idx *Index) addWindows(table *Table, joint *Counts, tagged []AlignedToken, n int) {
	dialect := make([]string, n)
	standard := make([]string, n)
	combined := make([]string, n)
	for i := 0; i+n <= len(tagged); i++ {
		for j, a := range tagged[i : i+n] {
			dialect[j] = a.Dialect
			standard[j] = a.Standard
			combined[j] = a.Combined()
		}
		table.Add(strings.Join(dialect, " "), strings.Join(standard, " "), 1)
		joint.add(strings.Join(combined, JointSeparator))
	}
}

// Pairs returns the number of pairs indexed.
func (idx *Index) Pairs() int { return idx.pairs }

// Equal reports whether two indexes hold identical counts in identical order.
func (idx *Index) Equal(o *Index) bool {
	return idx.pairs == o.pairs &&
		idx.Unigrams.Equal(o.Unigrams) &&
		idx.Bigrams.Equal(o.Bigrams) &&
		idx.Trigrams.Equal(o.Trigrams) &&
		idx.JointBigrams.equal(o.JointBigrams) &&
		idx.JointTrigrams.equal(o.JointTrigrams)
}
