package language

import (
	"math"
	"strings"

	"github.com/ieee0824/dialectmt/internal/mathutil"
)

// FrequencyModel scores standard-German text by the relative frequency of
// its trigrams in the training sentences. Every sentence is padded with two
// <s> and two </s> markers. Unseen trigrams score Floor.
type FrequencyModel struct {
	counts map[[3]string]int
	total  int

	Floor float64
}

// NewFrequencyModel returns an empty model with the default floor.
func NewFrequencyModel() *FrequencyModel {
	return &FrequencyModel{
		counts: make(map[[3]string]int),
		Floor:  mathutil.LogFloor,
	}
}

// BuildFrequencyModel trains a model on whitespace-tokenized sentences.
func BuildFrequencyModel(sentences []string) *FrequencyModel {
	m := NewFrequencyModel()
	for _, s := range sentences {
		m.AddSentence(strings.Fields(s))
	}
	return m
}

// AddSentence counts the trigrams of one sentence. Empty sentences are
// ignored.
func (m *FrequencyModel) AddSentence(words []string) {
	if len(words) == 0 {
		return
	}
	seq := make([]string, 0, len(words)+4)
	seq = append(seq, BOS, BOS)
	seq = append(seq, words...)
	seq = append(seq, EOS, EOS)
	for i := 2; i < len(seq); i++ {
		m.counts[[3]string{seq[i-2], seq[i-1], seq[i]}]++
		m.total++
	}
}

// Len returns the number of distinct trigrams.
func (m *FrequencyModel) Len() int { return len(m.counts) }

// Probability returns the log relative frequency of a three-word ngram, or
// Floor when it is unseen or not a trigram.
func (m *FrequencyModel) Probability(ngram []string) float64 {
	if len(ngram) != 3 || m.total == 0 {
		return m.Floor
	}
	c := m.counts[[3]string{ngram[0], ngram[1], ngram[2]}]
	if c == 0 {
		return m.Floor
	}
	return math.Log(float64(c) / float64(m.total))
}

// ProbabilityGivenContext sums the trigram scores of each phrase word with
// the two words before it. Missing history is filled with <s>.
func (m *FrequencyModel) ProbabilityGivenContext(context, phrase []string) float64 {
	h1, h2 := BOS, BOS
	if n := len(context); n >= 2 {
		h1, h2 = context[n-2], context[n-1]
	} else if n == 1 {
		h2 = context[0]
	}

	total := 0.0
	for _, w := range phrase {
		total += m.Probability([]string{h1, h2, w})
		h1, h2 = h2, w
	}
	return total
}
