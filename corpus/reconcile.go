package corpus

import (
	"strings"

	"github.com/ieee0824/dialectmt/internal/textutil"
)

// Reconcile tries to repair a pair whose dialect side has more tokens than
// its standard side. Transcribers often left a trailing fragment of the
// previous word behind ("wui wui"), so the dialect tokens are scanned from
// the end and a token is dropped when it is a suffix of its predecessor.
// Punctuation tokens are never dropped.
//
// On success the returned pair has bracket characters removed from both
// sides and equal token counts. Otherwise p is returned unchanged with false.
func Reconcile(p Pair) (Pair, bool) {
	dialect := strings.Fields(textutil.StripBrackets(p.Dialect))
	standard := strings.Fields(textutil.StripBrackets(p.Standard))

	if len(dialect) > 0 && len(dialect) == len(standard) {
		return joinPair(dialect, standard), true
	}

	for i := len(dialect) - 1; i > 0 && len(dialect) > len(standard) && len(dialect) > 1; i-- {
		if textutil.IsPunctuation(dialect[i]) {
			continue
		}
		if !strings.HasSuffix(dialect[i-1], dialect[i]) {
			continue
		}
		dialect = append(dialect[:i], dialect[i+1:]...)
		if len(dialect) == len(standard) {
			return joinPair(dialect, standard), true
		}
	}

	return p, false
}

func joinPair(dialect, standard []string) Pair {
	return Pair{
		Dialect:  strings.Join(dialect, " "),
		Standard: strings.Join(standard, " "),
	}
}

// ReconcileStats summarizes one reconciliation pass.
type ReconcileStats struct {
	Before    int // mismatched pairs before the pass
	Repaired  int // pairs promoted into the working corpus
	Remaining int // pairs still excluded from alignment
}

// Reconcile runs the length reconciler over every mismatched pair. Repaired
// pairs move into the working corpus; the rest stay excluded.
func (c *Corpus) Reconcile() ReconcileStats {
	stats := ReconcileStats{Before: len(c.Mismatched)}

	remaining := c.Mismatched[:0]
	for _, p := range c.Mismatched {
		fixed, ok := Reconcile(p)
		if !ok {
			remaining = append(remaining, p)
			continue
		}
		c.Pairs = append(c.Pairs, fixed)
		c.Repaired = append(c.Repaired, fixed)
	}
	c.Mismatched = remaining

	stats.Repaired = stats.Before - len(remaining)
	stats.Remaining = len(remaining)

	c.logger.Debug("length reconciliation",
		"mismatched_before", stats.Before,
		"repaired", stats.Repaired,
		"mismatched_after", stats.Remaining,
		"working_pairs", len(c.Pairs),
	)
	return stats
}
