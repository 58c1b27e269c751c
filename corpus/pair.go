// Package corpus holds the parallel dialect/standard training data and the
// preprocessing that turns a noisy transcription export into length-matched
// sentence pairs.
package corpus

import "strings"

// Markers shared by the alignment index, the phrase table and the decoder.
const (
	StartTag   = "<s>"
	EndTag     = "</s>"
	UnknownTag = "<UNK>"
)

// Pair is one dialect sentence with its standard-orthography transcription.
type Pair struct {
	Dialect  string
	Standard string
}

// Tokens splits both sides on whitespace.
func (p Pair) Tokens() (dialect, standard []string) {
	return strings.Fields(p.Dialect), strings.Fields(p.Standard)
}

// Aligned reports whether both sides are non-empty and have the same number
// of tokens, which is required for position-based word alignment.
func (p Pair) Aligned() bool {
	d, s := p.Tokens()
	return len(d) > 0 && len(d) == len(s)
}
