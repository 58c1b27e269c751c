package oov

import (
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ieee0824/dialectmt/internal/textutil"
)

// Vocabulary is the view of the trained vocabulary the resolver needs.
type Vocabulary interface {
	IsSource(word string) bool
	IsTarget(word string) bool
	Best(word string) (string, bool)
	Absorb(word string) bool
}

// Entry is a word at a token position of the sentence being translated.
type Entry struct {
	Surface  string
	Position int
}

// Resolution is the outcome of resolving one sentence.
type Resolution struct {
	// Tokens is the sentence after repairs, ready for decoding.
	Tokens []string
	// InTarget lists words that were already standard German and were
	// absorbed as identity translations.
	InTarget []Entry
	// Repairs lists the rewrites applied to the sentence.
	Repairs []RepairRecord
	// Retained lists compounds whose repaired form is not itself a dialect
	// key. They are masked for decoding and spliced back in rewritten form.
	Retained []Entry
	// Unresolved lists the words nothing could recover.
	Unresolved []Entry
}

// Masked returns the retained and unresolved entries in position order.
func (r Resolution) Masked() []Entry {
	out := make([]Entry, 0, len(r.Retained)+len(r.Unresolved))
	out = append(out, r.Retained...)
	out = append(out, r.Unresolved...)
	slices.SortFunc(out, func(a, b Entry) int { return a.Position - b.Position })
	return out
}

type action int

const (
	actionNone action = iota
	actionRewrite
	actionAbsorb
	actionRetain
)

type decision struct {
	entry  Entry
	action action
	form   string
}

// Resolver finds out-of-vocabulary words in a sentence and tries to map them
// onto the known vocabulary.
type Resolver struct {
	vocab  Vocabulary
	rules  []VowelRule
	ledger *Ledger
	logger *slog.Logger
}

// NewResolver returns a resolver. A nil ledger or logger gets a default.
func NewResolver(v Vocabulary, rules []VowelRule, ledger *Ledger, logger *slog.Logger) *Resolver {
	if ledger == nil {
		ledger = NewLedger()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{vocab: v, rules: rules, ledger: ledger, logger: logger}
}

// Ledger returns the ledger the resolver reports to.
func (r *Resolver) Ledger() *Ledger { return r.ledger }

// Resolve scans tokens, which must already be normalized. Words that are
// standard German are absorbed into the vocabulary. The remaining unknown
// words are repaired where possible.
//
// All repair decisions are taken against the vocabulary as it stood after
// the scan; absorptions they imply are applied afterwards. The outcome of
// a sentence therefore does not depend on the order of its words.
func (r *Resolver) Resolve(tokens []string) Resolution {
	res := Resolution{Tokens: slices.Clone(tokens)}

	var unknown []Entry
	for i, tok := range tokens {
		if textutil.IsPunctuation(tok) || r.vocab.IsSource(tok) {
			continue
		}
		if r.vocab.IsTarget(tok) {
			r.vocab.Absorb(tok)
			r.ledger.recordRecovered(tok)
			res.InTarget = append(res.InTarget, Entry{Surface: tok, Position: i})
			continue
		}
		unknown = append(unknown, Entry{Surface: tok, Position: i})
	}

	decisions := make([]decision, len(unknown))
	for k := len(unknown) - 1; k >= 0; k-- {
		decisions[k] = r.decide(unknown[k])
	}

	for _, d := range decisions {
		switch d.action {
		case actionNone:
			r.ledger.recordUnresolved(d.entry.Surface)
			res.Unresolved = append(res.Unresolved, d.entry)
			continue
		case actionAbsorb:
			r.vocab.Absorb(d.form)
			res.Tokens[d.entry.Position] = d.form
		case actionRewrite:
			res.Tokens[d.entry.Position] = d.form
		case actionRetain:
			res.Tokens[d.entry.Position] = d.form
			res.Retained = append(res.Retained, Entry{Surface: d.form, Position: d.entry.Position})
		}
		rec := RepairRecord{Original: d.entry.Surface, Repaired: d.form}
		r.ledger.recordRepair(rec)
		res.Repairs = append(res.Repairs, rec)
		r.logger.Debug("oov repaired", "word", rec.Original, "repaired", rec.Repaired, "position", d.entry.Position)
	}
	return res
}

// decide picks the repair for one unknown word without touching the
// vocabulary.
func (r *Resolver) decide(e Entry) decision {
	word := e.Surface
	for _, stripped := range []string{
		strings.ReplaceAll(word, "_", ""),
		strings.ReplaceAll(word, `\`, ""),
	} {
		if stripped != word && r.vocab.IsSource(stripped) {
			return decision{entry: e, action: actionRewrite, form: stripped}
		}
	}

	for _, rule := range r.rules {
		if !strings.Contains(word, rule.Pattern) {
			continue
		}
		for _, repl := range rule.Replacements {
			form := strings.ReplaceAll(word, rule.Pattern, repl)
			if r.vocab.IsSource(form) {
				return decision{entry: e, action: actionRewrite, form: form}
			}
			if r.vocab.IsTarget(form) {
				return decision{entry: e, action: actionAbsorb, form: form}
			}
			if title := textutil.Capitalize(form); r.vocab.IsTarget(title) {
				return decision{entry: e, action: actionAbsorb, form: title}
			}
		}
		if rule.Compounding {
			if form, ok := r.compound(word, rule); ok {
				return decision{entry: e, action: actionRetain, form: form}
			}
		}
	}
	return decision{entry: e, action: actionNone}
}

// compound restores a shortened prefix: "gfrett" becomes "gefrett" when
// "frett" is known, and "augfoin" becomes "ausgefallen" when "au" and "foin"
// are both known. Words already containing the full prefix are skipped.
func (r *Resolver) compound(word string, rule VowelRule) (string, bool) {
	if len(rule.Replacements) == 0 {
		return "", false
	}
	prefix := rule.Replacements[0]
	if strings.Contains(word, prefix) {
		return "", false
	}

	if rest, ok := strings.CutPrefix(word, rule.Pattern); ok {
		part, known := r.known(rest)
		if !known {
			return "", false
		}
		return strings.ToLower(prefix + part), true
	}

	head, tail, found := strings.Cut(word, rule.Pattern)
	if !found || utf8.RuneCountInString(head) < 2 || utf8.RuneCountInString(tail) < 2 {
		return "", false
	}
	h, ok := r.known(head)
	if !ok {
		return "", false
	}
	t, ok := r.known(tail)
	if !ok {
		return "", false
	}
	return strings.ToLower(h + prefix + t), true
}

// known maps a word part onto the vocabulary: a dialect key yields its best
// translation, a standard word yields itself.
func (r *Resolver) known(part string) (string, bool) {
	if part == "" {
		return "", false
	}
	if best, ok := r.vocab.Best(part); ok {
		return best, true
	}
	if r.vocab.IsTarget(part) {
		return part, true
	}
	return "", false
}
