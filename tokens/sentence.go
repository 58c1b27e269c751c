// Package tokens turns the token rows of the transcription database into
// sentences, translates them and plans the orthography updates written back
// per token.
package tokens

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/ieee0824/dialectmt/internal/textutil"
)

// Token is one transcribed token row.
type Token struct {
	ID        int64
	Text      string
	Ortho     string
	SpeakerID int64
	Order     int
}

// Sentence is a run of word tokens of one speaker between sentence
// delimiters.
type Sentence struct {
	Key          string // "<speaker>_<order of the previous delimiter>"
	TranscriptID int64
	SpeakerID    int64
	Items        []Token
	Text         string // cleaned text submitted for translation
}

var (
	fillers = map[string]bool{
		"m": true, "hm": true, "mh": true, "mhm": true,
		"ähm": true, "ahm": true, "öhm": true,
	}

	pauseRe      = regexp.MustCompile(`\(\(?\d\.\d\)\)?`)
	gapRe        = regexp.MustCompile(`\(\(?(-+|\.+)\)\)?`)
	commentRe    = regexp.MustCompile(`\(\(?[a-zA-ZäüößÄÜÖ\s]+\)\)?`)
	openNoiseRe  = regexp.MustCompile(`\(\([a-zäüöß]+`)
	closeNoiseRe = regexp.MustCompile(`[a-zäüöß]+\)\)`)

	anonymizedRe = regexp.MustCompile(`\[[a-zA-ZÄÖÜäüöß\s]+\][sopnza]{1,2}`)
	anonTag2Re   = regexp.MustCompile(`\][sopnza]{2}`)
	anonTag1Re   = regexp.MustCompile(`\][sopnza]`)

	signReplacer = strings.NewReplacer("=", "", ":", "", "_", "", "-", "", "(", "", ")", "")
)

// IsDelimiter reports whether text ends a sentence.
func IsDelimiter(text string) bool {
	switch strings.TrimSpace(text) {
	case ".", "?", ";", ",", "-":
		return true
	}
	return false
}

// IsWord reports whether text is a spoken word rather than a filler, a
// pause, a gap marker or a transcriber comment.
func IsWord(text string) bool {
	if fillers[text] || strings.Contains(text, "#") {
		return false
	}
	t := strings.TrimSpace(text)
	return !pauseRe.MatchString(t) && !gapRe.MatchString(t) && !commentRe.MatchString(t)
}

func keepToken(text string) bool {
	if openNoiseRe.MatchString(text) || closeNoiseRe.MatchString(text) {
		return false
	}
	if text == ":" || text == "_" {
		return false
	}
	return IsWord(strings.NewReplacer("_", "", ":", "").Replace(text))
}

// CleanFragments drops tokens that repeat the tail of the token before them,
// the trace of a word the speaker broke off and restarted. The short words
// "a" and "i" are kept.
func CleanFragments(items []Token) []Token {
	items = slices.Clone(items)
	for i := len(items) - 1; i > 0; i-- {
		prev, cur := items[i-1].Text, items[i].Text
		if cur == "a" || cur == "i" {
			continue
		}
		if len(prev) > len(cur) && strings.HasSuffix(prev, cur) {
			items = slices.Delete(items, i, i+1)
		}
	}
	return items
}

// CleanSentence strips transcription signs, lower-cases, resolves
// anonymization brackets and collapses whitespace.
func CleanSentence(s string) string {
	s = strings.ToLower(signReplacer.Replace(s))
	if anonymizedRe.MatchString(s) {
		s = strings.ReplaceAll(s, "[", "")
		s = anonTag2Re.ReplaceAllString(s, "")
		s = anonTag1Re.ReplaceAllString(s, "")
	}
	return textutil.CollapseSpaces(s)
}

// BuildSentences splits the ordered tokens of one speaker into sentences.
// Tokens after the last delimiter do not form a sentence.
func BuildSentences(transcriptID, speakerID int64, toks []Token) []Sentence {
	var (
		out     []Sentence
		pending []Token
		last    = 1
	)
	for _, tok := range toks {
		if IsDelimiter(tok.Text) {
			if len(pending) == 0 {
				continue
			}
			items := CleanFragments(pending)
			out = append(out, Sentence{
				Key:          fmt.Sprintf("%d_%d", speakerID, last),
				TranscriptID: transcriptID,
				SpeakerID:    speakerID,
				Items:        items,
				Text:         CleanSentence(joinText(items)),
			})
			pending = nil
			last = tok.Order
			continue
		}
		if keepToken(tok.Text) {
			pending = append(pending, tok)
		}
	}
	return out
}

func joinText(items []Token) string {
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}
	return strings.Join(texts, " ")
}
