package evaluate

import (
	"log/slog"
	"strings"

	"github.com/ieee0824/dialectmt/corpus"
)

// Translator renders dialect text in standard orthography.
type Translator interface {
	Translate(text string) string
}

// Sentence is the evaluation of one test pair.
type Sentence struct {
	Dialect    string
	Reference  string
	Hypothesis string
	BLEU       float64
	WER        float64
}

// Report aggregates sentence scores.
type Report struct {
	Sentences []Sentence
	BLEU      float64 // mean sentence BLEU
	WER       float64 // mean word error rate
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("sentences", len(r.Sentences)),
		slog.Float64("bleu", r.BLEU),
		slog.Float64("wer", r.WER),
	)
}

// Run translates the dialect side of every test pair and scores it. WER
// compares with the pair's own standard side. BLEU uses the references
// filtered from pool, or the pair's standard side when pool is empty.
func Run(tr Translator, test []corpus.Pair, pool []string) Report {
	var r Report
	for _, p := range test {
		hyp := tr.Translate(p.Dialect)
		hypTokens := strings.Fields(hyp)
		refTokens := strings.Fields(p.Standard)

		refs := [][]string{refTokens}
		if len(pool) > 0 {
			refs = FilterReferences(hypTokens, pool)
		}

		s := Sentence{
			Dialect:    p.Dialect,
			Reference:  p.Standard,
			Hypothesis: hyp,
			BLEU:       SentenceBLEU(refs, hypTokens),
			WER:        WER(refTokens, hypTokens),
		}
		r.Sentences = append(r.Sentences, s)
		r.BLEU += s.BLEU
		r.WER += s.WER
	}
	if n := len(r.Sentences); n > 0 {
		r.BLEU /= float64(n)
		r.WER /= float64(n)
	}
	return r
}
