// Package language provides the target-side language models that score
// standard-German word sequences during decoding.
package language

import "github.com/ieee0824/dialectmt/internal/mathutil"

// Sentence boundary symbols.
const (
	BOS = "<s>"
	EOS = "</s>"
)

// NGramModel is a backoff n-gram model of order 1 to 3, usually loaded from
// an ARPA file. Probabilities are natural logs.
type NGramModel struct {
	Order    int
	Unigrams map[string]ngramEntry
	Bigrams  map[[2]string]ngramEntry
	Trigrams map[[3]string]ngramEntry

	// OOVLogProb is returned for words missing from the unigram table.
	// Zero means LogZero.
	OOVLogProb float64
}

type ngramEntry struct {
	LogProb    float64
	LogBackoff float64
}

// NewNGramModel returns an empty model.
func NewNGramModel(order int) *NGramModel {
	return &NGramModel{
		Order:    order,
		Unigrams: make(map[string]ngramEntry),
		Bigrams:  make(map[[2]string]ngramEntry),
		Trigrams: make(map[[3]string]ngramEntry),
	}
}

// LogProb returns log P(word | history), backing off to shorter histories
// when the full n-gram is unseen.
func (m *NGramModel) LogProb(history []string, word string) float64 {
	n := len(history)
	if m.Order >= 3 && n >= 2 {
		h1, h2 := history[n-2], history[n-1]
		if e, ok := m.Trigrams[[3]string{h1, h2, word}]; ok {
			return e.LogProb
		}
		bow := 0.0
		if e, ok := m.Bigrams[[2]string{h1, h2}]; ok {
			bow = e.LogBackoff
		}
		return bow + m.bigram(h2, word)
	}
	if m.Order >= 2 && n >= 1 {
		return m.bigram(history[n-1], word)
	}
	return m.unigram(word)
}

func (m *NGramModel) bigram(prev, word string) float64 {
	if e, ok := m.Bigrams[[2]string{prev, word}]; ok {
		return e.LogProb
	}
	return m.Unigrams[prev].LogBackoff + m.unigram(word)
}

func (m *NGramModel) unigram(word string) float64 {
	if e, ok := m.Unigrams[word]; ok {
		return e.LogProb
	}
	if m.OOVLogProb != 0 {
		return m.OOVLogProb
	}
	return mathutil.LogZero
}

// Probability scores the last word of ngram given the words before it.
func (m *NGramModel) Probability(ngram []string) float64 {
	if len(ngram) == 0 {
		return 0
	}
	return m.LogProb(ngram[:len(ngram)-1], ngram[len(ngram)-1])
}

// ProbabilityGivenContext scores phrase as a continuation of context. An
// empty context means the phrase starts the sentence.
func (m *NGramModel) ProbabilityGivenContext(context, phrase []string) float64 {
	history := make([]string, 0, len(context)+len(phrase)+1)
	if len(context) == 0 {
		history = append(history, BOS)
	}
	history = append(history, context...)

	total := 0.0
	for _, w := range phrase {
		total += m.LogProb(history, w)
		history = append(history, w)
	}
	return total
}

// SentenceLogProb scores a whole sentence including the </s> transition.
func (m *NGramModel) SentenceLogProb(words []string) float64 {
	return m.ProbabilityGivenContext(nil, append(append([]string(nil), words...), EOS))
}

// Vocab returns the unigram vocabulary in no particular order.
func (m *NGramModel) Vocab() []string {
	words := make([]string, 0, len(m.Unigrams))
	for w := range m.Unigrams {
		words = append(words, w)
	}
	return words
}
