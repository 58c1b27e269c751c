package language

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
)

// Builder counts n-grams over standard-German sentences and writes a
// Witten-Bell smoothed backoff model in ARPA format.
type Builder struct {
	order    int
	unigrams map[string]int
	bigrams  map[[2]string]int
	trigrams map[[3]string]int
}

// NewBuilder returns a builder for a bigram or trigram model. Other orders
// are clamped into that range.
func NewBuilder(order int) *Builder {
	return &Builder{
		order:    min(max(order, 2), 3),
		unigrams: make(map[string]int),
		bigrams:  make(map[[2]string]int),
		trigrams: make(map[[3]string]int),
	}
}

// AddSentence counts one tokenized sentence wrapped in <s> and </s>.
func (b *Builder) AddSentence(words []string) {
	if len(words) == 0 {
		return
	}
	seq := make([]string, 0, len(words)+2)
	seq = append(seq, BOS)
	seq = append(seq, words...)
	seq = append(seq, EOS)

	for i, w := range seq {
		b.unigrams[w]++
		if i >= 1 {
			b.bigrams[[2]string{seq[i-1], w}]++
		}
		if b.order >= 3 && i >= 2 {
			b.trigrams[[3]string{seq[i-2], seq[i-1], w}]++
		}
	}
}

// AddText splits each sentence on whitespace and adds it.
func (b *Builder) AddText(sentences []string) {
	for _, s := range sentences {
		b.AddSentence(strings.Fields(s))
	}
}

// wbContext holds the Witten-Bell statistics of one history: the number of
// tokens N and distinct continuations T seen after it.
type wbContext struct {
	tokens int
	types  int
}

func (c wbContext) prob(count int) float64 {
	return float64(count) / float64(c.tokens+c.types)
}

type arpaEntry struct {
	words   []string
	logProb float64
	backoff float64
}

// Build computes the smoothed model in memory.
func (b *Builder) Build() *NGramModel {
	m := NewNGramModel(b.order)
	for _, e := range b.entries() {
		ne := ngramEntry{LogProb: e.logProb * math.Ln10, LogBackoff: e.backoff * math.Ln10}
		switch len(e.words) {
		case 1:
			m.Unigrams[e.words[0]] = ne
		case 2:
			m.Bigrams[[2]string{e.words[0], e.words[1]}] = ne
		case 3:
			m.Trigrams[[3]string{e.words[0], e.words[1], e.words[2]}] = ne
		}
	}
	return m
}

// entries returns every n-gram with base-10 log probability and backoff,
// sorted by order then lexicographically.
func (b *Builder) entries() []arpaEntry {
	uniTotal := 0
	for _, c := range b.unigrams {
		uniTotal += c
	}
	pUni := func(w string) float64 { return float64(b.unigrams[w]) / float64(uniTotal) }

	biCtx := make(map[string]wbContext)
	for k, c := range b.bigrams {
		s := biCtx[k[0]]
		s.tokens += c
		s.types++
		biCtx[k[0]] = s
	}
	triCtx := make(map[[2]string]wbContext)
	for k, c := range b.trigrams {
		h := [2]string{k[0], k[1]}
		s := triCtx[h]
		s.tokens += c
		s.types++
		triCtx[h] = s
	}
	pBi := func(h, w string) float64 {
		if c, ok := b.bigrams[[2]string{h, w}]; ok {
			return biCtx[h].prob(c)
		}
		return pUni(w)
	}

	// Mass left for backoff: 1 - sum of seen higher-order probabilities,
	// normalized by the lower-order mass of the same continuations.
	uniSeen := make(map[string][2]float64)
	for k, c := range b.bigrams {
		s := uniSeen[k[0]]
		s[0] += biCtx[k[0]].prob(c)
		s[1] += pUni(k[1])
		uniSeen[k[0]] = s
	}
	biSeen := make(map[[2]string][2]float64)
	for k, c := range b.trigrams {
		h := [2]string{k[0], k[1]}
		s := biSeen[h]
		s[0] += triCtx[h].prob(c)
		s[1] += pBi(k[1], k[2])
		biSeen[h] = s
	}
	backoff := func(s [2]float64, ok bool) float64 {
		if !ok || s[1] >= 1.0 {
			return 0
		}
		return math.Log10((1.0 - s[0]) / (1.0 - s[1]))
	}

	var out []arpaEntry
	for w, c := range b.unigrams {
		s, ok := uniSeen[w]
		out = append(out, arpaEntry{
			words:   []string{w},
			logProb: math.Log10(float64(c) / float64(uniTotal)),
			backoff: backoff(s, ok),
		})
	}
	for k, c := range b.bigrams {
		e := arpaEntry{words: []string{k[0], k[1]}, logProb: math.Log10(biCtx[k[0]].prob(c))}
		if b.order >= 3 {
			s, ok := biSeen[k]
			e.backoff = backoff(s, ok)
		}
		out = append(out, e)
	}
	for k, c := range b.trigrams {
		out = append(out, arpaEntry{
			words:   []string{k[0], k[1], k[2]},
			logProb: math.Log10(triCtx[[2]string{k[0], k[1]}].prob(c)),
		})
	}

	slices.SortFunc(out, func(x, y arpaEntry) int {
		if c := cmp.Compare(len(x.words), len(y.words)); c != 0 {
			return c
		}
		return slices.Compare(x.words, y.words)
	})
	return out
}

// WriteARPA writes the smoothed model in ARPA format.
func (b *Builder) WriteARPA(w io.Writer) error {
	entries := b.entries()
	counts := make([]int, 4)
	for _, e := range entries {
		counts[len(e.words)]++
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, `\data\`)
	for n := 1; n <= 3; n++ {
		if counts[n] > 0 {
			fmt.Fprintf(bw, "ngram %d=%d\n", n, counts[n])
		}
	}

	order := 0
	for _, e := range entries {
		if n := len(e.words); n != order {
			order = n
			fmt.Fprintf(bw, "\n\\%d-grams:\n", n)
		}
		if e.backoff != 0 {
			fmt.Fprintf(bw, "%.6f\t%s\t%.6f\n", e.logProb, strings.Join(e.words, " "), e.backoff)
		} else {
			fmt.Fprintf(bw, "%.6f\t%s\n", e.logProb, strings.Join(e.words, " "))
		}
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, `\end\`)
	return bw.Flush()
}
