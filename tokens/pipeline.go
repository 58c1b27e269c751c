package tokens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound is returned when a lookup or update matches no rows.
	ErrNotFound = errors.New("tokens: not found")
	// ErrLengthMismatch is returned when a translation does not have one
	// word per sentence token.
	ErrLengthMismatch = errors.New("tokens: translation length differs from token count")
)

// Update sets the standard orthography of one token.
type Update struct {
	TokenID int64
	Ortho   string
}

// PlanUpdates pairs the words of translation with the sentence tokens.
func PlanUpdates(s Sentence, translation string) ([]Update, error) {
	words := strings.Fields(translation)
	if len(words) != len(s.Items) {
		return nil, fmt.Errorf("%w: sentence %s has %d tokens, translation %d words",
			ErrLengthMismatch, s.Key, len(s.Items), len(words))
	}
	out := make([]Update, len(words))
	for i, it := range s.Items {
		out[i] = Update{TokenID: it.ID, Ortho: words[i]}
	}
	return out, nil
}

// Source reads transcripts and their tokens.
type Source interface {
	TranscriptIDs(ctx context.Context, patterns []string) ([]int64, error)
	SpeakerIDs(ctx context.Context, transcriptID int64) ([]int64, error)
	Tokens(ctx context.Context, transcriptID, speakerID int64) ([]Token, error)
}

// Sink writes orthography updates and returns the number of rows changed.
type Sink interface {
	UpdateOrtho(ctx context.Context, updates []Update) (int, error)
}

// Translator renders dialect text in standard orthography.
type Translator interface {
	Translate(text string) string
}

// Transcript holds the sentences of one transcript.
type Transcript struct {
	ID        int64
	Sentences []Sentence
}

// Collect loads every transcript matching patterns and splits it into
// sentences. Transcripts are fetched concurrently, at most limit at a time;
// the result keeps transcript ID order.
func Collect(ctx context.Context, src Source, patterns []string, limit int) ([]Transcript, error) {
	ids, err := src.TranscriptIDs(ctx, patterns)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no transcript matches %v", ErrNotFound, patterns)
	}

	out := make([]Transcript, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		g.Go(func() error {
			speakers, err := src.SpeakerIDs(ctx, id)
			if err != nil {
				return fmt.Errorf("transcript %d: speakers: %w", id, err)
			}
			tr := Transcript{ID: id}
			for _, sp := range speakers {
				toks, err := src.Tokens(ctx, id, sp)
				if err != nil {
					return fmt.Errorf("transcript %d speaker %d: tokens: %w", id, sp, err)
				}
				tr.Sentences = append(tr.Sentences, BuildSentences(id, sp, toks)...)
			}
			out[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary counts the work done by a pipeline run.
type Summary struct {
	Transcripts int
	Sentences   int
	Skipped     int // sentences whose translation length did not match
	Updates     int // planned updates
	Written     int // rows changed in the sink
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("transcripts", s.Transcripts),
		slog.Int("sentences", s.Sentences),
		slog.Int("skipped", s.Skipped),
		slog.Int("updates", s.Updates),
		slog.Int("written", s.Written),
	)
}

// Pipeline annotates database tokens with their standard orthography.
type Pipeline struct {
	Source      Source
	Sink        Sink
	Translator  Translator
	Patterns    []string
	Concurrency int
	DryRun      bool
	Logger      *slog.Logger
}

// Plan translates every collected sentence and returns the updates it
// implies. Sentences whose translation cannot be mapped onto their tokens
// are skipped.
func (p *Pipeline) Plan(ctx context.Context) ([]Update, Summary, error) {
	logger := p.logger()
	var sum Summary

	transcripts, err := Collect(ctx, p.Source, p.Patterns, p.Concurrency)
	if err != nil {
		return nil, sum, err
	}
	sum.Transcripts = len(transcripts)

	var updates []Update
	for _, tr := range transcripts {
		for _, s := range tr.Sentences {
			if err := ctx.Err(); err != nil {
				return nil, sum, err
			}
			sum.Sentences++
			translation := p.Translator.Translate(s.Text)
			planned, err := PlanUpdates(s, translation)
			if err != nil {
				sum.Skipped++
				logger.Warn("sentence skipped", "key", s.Key, "transcript", tr.ID, "text", s.Text, "translation", translation, "error", err)
				continue
			}
			updates = append(updates, planned...)
		}
		logger.Debug("transcript translated", "transcript", tr.ID, "sentences", len(tr.Sentences))
	}
	sum.Updates = len(updates)
	return updates, sum, nil
}

// Run plans the updates and writes them unless DryRun is set.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	updates, sum, err := p.Plan(ctx)
	if err != nil {
		return sum, err
	}
	if p.DryRun || len(updates) == 0 {
		p.logger().Info("annotation planned", "summary", sum, "dry_run", p.DryRun)
		return sum, nil
	}
	if p.Sink == nil {
		return sum, errors.New("tokens: no sink configured")
	}

	n, err := p.Sink.UpdateOrtho(ctx, updates)
	if err != nil {
		return sum, fmt.Errorf("write updates: %w", err)
	}
	sum.Written = n
	p.logger().Info("annotation written", "summary", sum)
	return sum, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
