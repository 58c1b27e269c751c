// Package dialectmt translates Viennese dialect transcriptions into standard
// German orthography with a phrase-based statistical model trained on a
// parallel corpus.
package dialectmt

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/ieee0824/dialectmt/alignment"
	"github.com/ieee0824/dialectmt/corpus"
	"github.com/ieee0824/dialectmt/decoder"
	"github.com/ieee0824/dialectmt/internal/textutil"
	"github.com/ieee0824/dialectmt/language"
	"github.com/ieee0824/dialectmt/oov"
	"github.com/ieee0824/dialectmt/phrase"
	"github.com/ieee0824/dialectmt/vocab"
)

// NotApplicable is returned for empty input.
const NotApplicable = "N/A"

// ErrEmptyCorpus is returned when no length-matched pair survives
// preprocessing.
var ErrEmptyCorpus = errors.New("dialectmt: no aligned sentence pairs in corpus")

// Decoder turns a tokenized dialect sentence into standard tokens.
type Decoder interface {
	Translate(words []string) []string
}

// Translator is the trained translation system. Translate calls are
// serialized because out-of-vocabulary handling extends the vocabulary.
type Translator struct {
	Corpus  *corpus.Corpus
	Index   *alignment.Index
	Phrases *phrase.Table
	LM      decoder.LanguageModel
	Vocab   *vocab.Store
	Ledger  *oov.Ledger

	DecCfg     decoder.Config
	Rules      []oov.VowelRule
	OOVLogProb float64 // log10 unigram probability for ARPA models; 0 disables

	arpaPath string
	decoder  Decoder
	resolver *oov.Resolver
	logger   *slog.Logger

	mu sync.Mutex
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = l
	}
}

// WithDecoderConfig sets custom decoder parameters.
func WithDecoderConfig(cfg decoder.Config) Option {
	return func(t *Translator) {
		t.DecCfg = cfg
	}
}

// WithRules replaces the built-in vowel rules.
func WithRules(rules []oov.VowelRule) Option {
	return func(t *Translator) {
		t.Rules = rules
	}
}

// WithLanguageModel uses lm instead of the trigram frequency model trained
// on the corpus.
func WithLanguageModel(lm decoder.LanguageModel) Option {
	return func(t *Translator) {
		t.LM = lm
	}
}

// WithARPA loads the language model from an ARPA file.
func WithARPA(path string) Option {
	return func(t *Translator) {
		t.arpaPath = path
	}
}

// WithOOVLogProb sets the OOV unigram probability in log10 (e.g. -5.0) for
// ARPA models.
func WithOOVLogProb(log10prob float64) Option {
	return func(t *Translator) {
		t.OOVLogProb = log10prob
	}
}

// WithDecoder replaces the stack decoder.
func WithDecoder(d Decoder) Option {
	return func(t *Translator) {
		t.decoder = d
	}
}

// New trains a translator on rows: annotations are stripped, mismatched
// pairs are reconciled where possible, and the phrase table is assembled
// from the working corpus.
func New(rows []corpus.Pair, opts ...Option) (*Translator, error) {
	t := &Translator{
		DecCfg: decoder.DefaultConfig(),
		Rules:  oov.DefaultRules(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := oov.ValidateRules(t.Rules); err != nil {
		return nil, err
	}

	t.Corpus = corpus.New(rows, t.logger)
	t.Corpus.Reconcile()
	if len(t.Corpus.Pairs) == 0 {
		return nil, ErrEmptyCorpus
	}

	t.Index = alignment.Build(t.Corpus.Pairs)
	t.Phrases = phrase.Assemble(t.Index)

	if t.arpaPath != "" {
		lm, err := language.LoadARPAFile(t.arpaPath)
		if err != nil {
			return nil, fmt.Errorf("load language model: %w", err)
		}
		if t.OOVLogProb != 0 {
			lm.OOVLogProb = t.OOVLogProb * math.Ln10
		}
		t.LM = lm
	}
	if t.LM == nil {
		t.LM = language.BuildFrequencyModel(t.Corpus.Standard())
	}

	if t.decoder == nil {
		d, err := decoder.New(t.Phrases, t.LM, t.DecCfg)
		if err != nil {
			return nil, fmt.Errorf("create decoder: %w", err)
		}
		t.decoder = d
	}

	t.Vocab = vocab.New(t.Index.Unigrams, t.Phrases)
	t.Ledger = oov.NewLedger()
	t.resolver = oov.NewResolver(t.Vocab, t.Rules, t.Ledger, t.logger)

	t.logger.Info("translator trained",
		"corpus", t.Corpus.Stats(),
		"unigrams", t.Index.Unigrams.Len(),
		"bigrams", t.Index.Bigrams.Len(),
		"trigrams", t.Index.Trigrams.Len(),
		"joint_bigrams", t.Index.JointBigrams.Len(),
		"joint_trigrams", t.Index.JointTrigrams.Len(),
		"phrases", t.Phrases.Len(),
	)
	return t, nil
}

// NewFromFile trains a translator on a TSV corpus with sentorig and
// sentorth columns.
func NewFromFile(path string, opts ...Option) (*Translator, error) {
	rows, err := corpus.LoadTSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return New(rows, opts...)
}

// Translate renders a dialect sentence in standard orthography. Words the
// system cannot recover are kept in their original form.
func (t *Translator) Translate(text string) string {
	raw := strings.Fields(text)
	input := textutil.Normalize(text)
	if input == "" || input == strings.ToLower(NotApplicable) {
		return NotApplicable
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	res := t.resolver.Resolve(strings.Fields(input))
	masked := res.Masked()
	if len(masked) == 0 {
		return strings.Join(t.decoder.Translate(res.Tokens), " ")
	}

	words := make([]string, len(res.Tokens))
	copy(words, res.Tokens)
	fill := make([]string, len(masked))
	for i, e := range masked {
		words[e.Position] = corpus.UnknownTag
		fill[i] = e.Surface
		// unresolved words go back with their original casing
		if e.Position < len(raw) && e.Surface == strings.ToLower(raw[e.Position]) {
			fill[i] = raw[e.Position]
		}
	}

	out := t.decoder.Translate(words)
	t.logger.Debug("translated with masked words", "masked", len(masked), "input", input)
	return strings.Join(splice(out, fill), " ")
}

// splice replaces <UNK> tokens in out with fill, left to right. Surplus
// <UNK> tokens are kept.
func splice(out, fill []string) []string {
	result := make([]string, len(out))
	copy(result, out)
	next := 0
	for i, w := range result {
		if next == len(fill) {
			break
		}
		if w == corpus.UnknownTag {
			result[i] = fill[next]
			next++
		}
	}
	return result
}

// Repairs returns every out-of-vocabulary repair made so far.
func (t *Translator) Repairs() []oov.RepairRecord {
	return t.Ledger.Repairs()
}

// OOVRecords returns every out-of-vocabulary observation made so far.
func (t *Translator) OOVRecords() []oov.Record {
	return t.Ledger.Records()
}

// OOVStats summarizes out-of-vocabulary handling so far.
func (t *Translator) OOVStats() oov.Stats {
	return t.Ledger.Stats()
}
