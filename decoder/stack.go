// Package decoder implements a monotone phrase-based stack decoder that
// searches for the most probable standard-German rendering of a dialect
// sentence.
package decoder

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ieee0824/dialectmt/internal/mathutil"
	"github.com/ieee0824/dialectmt/phrase"
)

// LanguageModel scores target-side word sequences. Scores are natural logs.
type LanguageModel interface {
	Probability(ngram []string) float64
	ProbabilityGivenContext(context, phrase []string) float64
}

// PhraseSource supplies the translation options of a source phrase, best
// first.
type PhraseSource interface {
	TranslationsFor(source string) []phrase.Phrase
}

var (
	// ErrReordering is returned for a non-zero distortion factor. Only
	// monotone decoding is supported.
	ErrReordering = errors.New("decoder: phrase reordering is not supported")
	// ErrInvalidConfig is returned for unusable search parameters.
	ErrInvalidConfig = errors.New("decoder: invalid config")
)

// contextSize is the number of target words kept as language model history.
const contextSize = 2

// Config holds stack search parameters.
type Config struct {
	StackSize          int     // maximum hypotheses kept per stack
	BeamWidth          float64 // log-domain beam below the best hypothesis; 0 disables
	LMWeight           float64 // language model scaling factor
	WordPenalty        float64 // added once per emitted target word
	MaxPhraseLength    int     // longest source phrase looked up
	PassThroughLogProb float64 // score of copying an unknown token unchanged
	DistortionFactor   float64 // must be 0
}

// DefaultConfig returns reasonable default parameters.
func DefaultConfig() Config {
	return Config{
		StackSize:          100,
		BeamWidth:          100,
		LMWeight:           1,
		WordPenalty:        0,
		MaxPhraseLength:    3,
		PassThroughLogProb: -20,
	}
}

// Validate checks that the parameters describe a monotone search.
func (c Config) Validate() error {
	if c.DistortionFactor != 0 {
		return ErrReordering
	}
	if c.StackSize <= 0 {
		return fmt.Errorf("%w: stack size %d", ErrInvalidConfig, c.StackSize)
	}
	if c.MaxPhraseLength <= 0 {
		return fmt.Errorf("%w: max phrase length %d", ErrInvalidConfig, c.MaxPhraseLength)
	}
	if c.BeamWidth < 0 {
		return fmt.Errorf("%w: beam width %g", ErrInvalidConfig, c.BeamWidth)
	}
	return nil
}

// Decoder translates tokenized sentences. It holds no per-call state and is
// safe for concurrent use when its phrase source and language model are.
type Decoder struct {
	phrases PhraseSource
	lm      LanguageModel
	cfg     Config
}

// New returns a decoder over phrases and lm.
func New(phrases PhraseSource, lm LanguageModel, cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if phrases == nil || lm == nil {
		return nil, fmt.Errorf("%w: phrase source and language model are required", ErrInvalidConfig)
	}
	return &Decoder{phrases: phrases, lm: lm, cfg: cfg}, nil
}

// historyNode is a linked list node to avoid copying segment slices.
type historyNode struct {
	seg    Segment
	prev   *historyNode
	length int
}

func (n *historyNode) segments() []Segment {
	if n == nil {
		return nil
	}
	segs := make([]Segment, n.length)
	for cur, i := n, n.length-1; cur != nil; cur, i = cur.prev, i-1 {
		segs[i] = cur.seg
	}
	return segs
}

// hypothesis is a partial translation covering a source prefix.
type hypothesis struct {
	score   float64
	context []string
	history *historyNode
}

// stack holds the hypotheses covering the same number of source tokens.
// Hypotheses with the same language model context are recombined.
type stack struct {
	hyps  []*hypothesis
	index map[string]int
}

func newStack() *stack {
	return &stack{index: make(map[string]int)}
}

func (s *stack) push(h *hypothesis) {
	key := strings.Join(h.context, " ")
	if i, ok := s.index[key]; ok {
		if h.score > s.hyps[i].score {
			s.hyps[i] = h
		}
		return
	}
	s.index[key] = len(s.hyps)
	s.hyps = append(s.hyps, h)
}

// pruned returns the surviving hypotheses, best first. Ties keep insertion
// order.
func (s *stack) pruned(cfg Config) []*hypothesis {
	hyps := slices.Clone(s.hyps)
	slices.SortStableFunc(hyps, func(a, b *hypothesis) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	if len(hyps) > cfg.StackSize {
		hyps = hyps[:cfg.StackSize]
	}
	if cfg.BeamWidth > 0 && len(hyps) > 0 {
		threshold := hyps[0].score - cfg.BeamWidth
		cut := len(hyps)
		for i, h := range hyps {
			if h.score < threshold {
				cut = i
				break
			}
		}
		hyps = hyps[:cut]
	}
	return hyps
}

// Translate returns the best translation of words as tokens.
func (d *Decoder) Translate(words []string) []string {
	return d.Decode(words).Words
}

// Decode runs the stack search over words. Source phrases of up to
// MaxPhraseLength tokens are translated left to right; a single token with
// no phrase entry is copied through.
func (d *Decoder) Decode(words []string) *Result {
	n := len(words)
	if n == 0 {
		return &Result{}
	}

	options := d.options(words)

	stacks := make([]*stack, n+1)
	for i := range stacks {
		stacks[i] = newStack()
	}
	stacks[0].push(&hypothesis{})

	for i := 0; i < n; i++ {
		for _, h := range stacks[i].pruned(d.cfg) {
			for l, opts := range options[i] {
				end := i + l + 1
				for _, opt := range opts {
					stacks[end].push(d.extend(h, opt, i, end))
				}
			}
		}
	}

	final := stacks[n].pruned(d.cfg)
	if len(final) == 0 {
		return &Result{LogScore: mathutil.LogZero}
	}
	best := final[0]

	res := &Result{Segments: best.history.segments(), LogScore: best.score}
	for _, seg := range res.Segments {
		res.Words = append(res.Words, strings.Fields(seg.Target)...)
	}
	res.Text = strings.Join(res.Words, " ")
	return res
}

// options looks up every source span once. options[i][l] holds the
// translations of words[i:i+l+1].
func (d *Decoder) options(words []string) [][][]phrase.Phrase {
	n := len(words)
	out := make([][][]phrase.Phrase, n)
	for i := range out {
		out[i] = make([][]phrase.Phrase, min(d.cfg.MaxPhraseLength, n-i))
		for l := range out[i] {
			src := strings.Join(words[i:i+l+1], " ")
			opts := d.phrases.TranslationsFor(src)
			if len(opts) == 0 && l == 0 {
				opts = []phrase.Phrase{{Source: src, Target: src, LogProb: d.cfg.PassThroughLogProb}}
			}
			out[i][l] = opts
		}
	}
	return out
}

func (d *Decoder) extend(h *hypothesis, opt phrase.Phrase, start, end int) *hypothesis {
	target := opt.Words()
	score := h.score + opt.LogProb +
		d.cfg.LMWeight*d.lm.ProbabilityGivenContext(h.context, target) +
		d.cfg.WordPenalty*float64(len(target))

	ctx := make([]string, 0, len(h.context)+len(target))
	ctx = append(ctx, h.context...)
	ctx = append(ctx, target...)
	if len(ctx) > contextSize {
		ctx = slices.Clone(ctx[len(ctx)-contextSize:])
	}

	length := 1
	if h.history != nil {
		length = h.history.length + 1
	}
	return &hypothesis{
		score:   score,
		context: ctx,
		history: &historyNode{
			seg: Segment{
				Source:  opt.Source,
				Target:  opt.Target,
				Start:   start,
				End:     end,
				LogProb: opt.LogProb,
			},
			prev:   h.history,
			length: length,
		},
	}
}
