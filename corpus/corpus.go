package corpus

import (
	"log/slog"
	"strings"
)

// Corpus is the preprocessed training data. Pairs is the working corpus used
// for alignment; it only ever holds pairs with equal token counts.
type Corpus struct {
	Pairs      []Pair // length-matched pairs, including reconciled ones
	Mismatched []Pair // pairs whose token counts differ
	Artifacts  []Pair // fragment/omission rows excluded from training
	Repaired   []Pair // pairs recovered by Reconcile

	slashRows   int
	hashtagRows int
	capitalOnly int

	logger *slog.Logger
}

// New strips annotations from every row and sorts the rows into the working
// corpus, the mismatched set and the excluded artifacts. A nil logger falls
// back to slog.Default.
func New(rows []Pair, logger *slog.Logger) *Corpus {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Corpus{logger: logger}
	for _, row := range rows {
		c.add(row)
	}
	c.logger.Debug("corpus ingested",
		"rows", len(rows),
		"pairs", len(c.Pairs),
		"mismatched", len(c.Mismatched),
		"artifacts", len(c.Artifacts),
	)
	return c
}

func (c *Corpus) add(row Pair) {
	p := Pair{
		Dialect:  StripAnnotations(row.Dialect),
		Standard: StripAnnotations(row.Standard),
	}
	if p.Dialect == "" && p.Standard == "" {
		return
	}

	if hasSlash(p) {
		c.slashRows++
	}
	if hasHashtag(p) {
		c.hashtagRows++
	}
	if isCapitalOnly(p) {
		c.capitalOnly++
	}

	if isArtifact(p) {
		c.Artifacts = append(c.Artifacts, p)
		return
	}
	if p.Aligned() {
		c.Pairs = append(c.Pairs, p)
		return
	}
	c.Mismatched = append(c.Mismatched, p)
}

// Standard returns the standard side of every pair that is not an artifact.
// It is the training text for the target language model.
func (c *Corpus) Standard() []string {
	out := make([]string, 0, len(c.Pairs)+len(c.Mismatched))
	for _, p := range c.Pairs {
		out = append(out, p.Standard)
	}
	for _, p := range c.Mismatched {
		out = append(out, p.Standard)
	}
	return out
}

// Stats describes the corpus composition.
type Stats struct {
	Pairs       int
	Mismatched  int
	Artifacts   int
	Repaired    int
	SlashRows   int
	HashtagRows int
	CapitalOnly int

	DialectWords       int
	DialectVocabulary  int
	StandardWords      int
	StandardVocabulary int
}

// Stats computes word and vocabulary counts over the working corpus.
func (c *Corpus) Stats() Stats {
	s := Stats{
		Pairs:       len(c.Pairs),
		Mismatched:  len(c.Mismatched),
		Artifacts:   len(c.Artifacts),
		Repaired:    len(c.Repaired),
		SlashRows:   c.slashRows,
		HashtagRows: c.hashtagRows,
		CapitalOnly: c.capitalOnly,
	}
	dialect := make(map[string]struct{})
	standard := make(map[string]struct{})
	for _, p := range c.Pairs {
		for _, w := range strings.Fields(p.Dialect) {
			dialect[w] = struct{}{}
			s.DialectWords++
		}
		for _, w := range strings.Fields(p.Standard) {
			standard[w] = struct{}{}
			s.StandardWords++
		}
	}
	s.DialectVocabulary = len(dialect)
	s.StandardVocabulary = len(standard)
	return s
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("pairs", s.Pairs),
		slog.Int("mismatched", s.Mismatched),
		slog.Int("artifacts", s.Artifacts),
		slog.Int("repaired", s.Repaired),
		slog.Int("slash_rows", s.SlashRows),
		slog.Int("hashtag_rows", s.HashtagRows),
		slog.Int("capital_only", s.CapitalOnly),
		slog.Int("dialect_words", s.DialectWords),
		slog.Int("dialect_vocabulary", s.DialectVocabulary),
		slog.Int("standard_words", s.StandardWords),
		slog.Int("standard_vocabulary", s.StandardVocabulary),
	)
}
