package corpus

import (
	"regexp"
	"strings"

	"github.com/ieee0824/dialectmt/internal/textutil"
)

// annotationRe matches transcription annotations that carry no words:
// timestamps like [1,5s], scene descriptions like [lachen] and the
// uncertainty marker (?).
var annotationRe = regexp.MustCompile(`\[\d+([,.]\d+)?s\]|\[[a-zA-ZäöüÄÖÜß]+\]|\(\?\)`)

// StripAnnotations removes annotation markers and collapses the whitespace
// left behind.
func StripAnnotations(s string) string {
	return textutil.CollapseSpaces(annotationRe.ReplaceAllString(s, ""))
}

// isArtifact reports whether a row carries a fragment marker on the dialect
// side that the standard side resolved with an omission marker. Such rows
// cannot be aligned and are excluded from training.
func isArtifact(p Pair) bool {
	return (strings.Contains(p.Dialect, `\`) || !strings.Contains(p.Dialect, "#")) &&
		strings.Contains(p.Standard, "#")
}

func hasSlash(p Pair) bool {
	return strings.Contains(p.Dialect, "/") || strings.Contains(p.Standard, "/")
}

func hasHashtag(p Pair) bool {
	return strings.Contains(p.Dialect, "#") || strings.Contains(p.Standard, "#")
}

func isCapitalOnly(p Pair) bool {
	return p.Dialect == strings.ToLower(p.Standard)
}
