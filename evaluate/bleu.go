package evaluate

import (
	"math"
	"slices"
	"strings"
)

// MaxOrder is the highest n-gram order BLEU counts.
const MaxOrder = 4

// smoothingEpsilon replaces a zero n-gram match count so that one missing
// order does not zero the whole sentence score.
const smoothingEpsilon = 0.1

// SentenceBLEU scores hypothesis against any of references with uniform
// weights over 1- to 4-grams, clipped counts and the brevity penalty of the
// closest reference length.
func SentenceBLEU(references [][]string, hypothesis []string) float64 {
	if len(hypothesis) == 0 || len(references) == 0 {
		return 0
	}

	logSum := 0.0
	for n := 1; n <= MaxOrder; n++ {
		hyp := ngramCounts(hypothesis, n)
		total := max(len(hypothesis)-n+1, 0)
		if total == 0 {
			logSum += math.Log(smoothingEpsilon)
			continue
		}

		maxRef := make(map[string]int)
		for _, ref := range references {
			for g, c := range ngramCounts(ref, n) {
				maxRef[g] = max(maxRef[g], c)
			}
		}
		matched := 0
		for g, c := range hyp {
			matched += min(c, maxRef[g])
		}

		num := float64(matched)
		if matched == 0 {
			num = smoothingEpsilon
		}
		logSum += math.Log(num / float64(total))
	}

	return brevityPenalty(references, len(hypothesis)) * math.Exp(logSum/MaxOrder)
}

func ngramCounts(words []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(words); i++ {
		counts[strings.Join(words[i:i+n], " ")]++
	}
	return counts
}

// brevityPenalty compares the hypothesis length with the closest reference
// length, preferring the shorter reference on ties.
func brevityPenalty(references [][]string, hypLen int) float64 {
	closest := len(references[0])
	for _, ref := range references[1:] {
		d, best := abs(len(ref)-hypLen), abs(closest-hypLen)
		if d < best || (d == best && len(ref) < closest) {
			closest = len(ref)
		}
	}
	if hypLen > closest {
		return 1
	}
	return math.Exp(1 - float64(closest)/float64(hypLen))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// FilterReferences returns the corpus sentences that share at least one word
// with hypothesis, tokenized. When none do, every sentence is returned.
func FilterReferences(hypothesis []string, corpus []string) [][]string {
	all := make([][]string, 0, len(corpus))
	var matched [][]string
	for _, s := range corpus {
		ref := strings.Fields(s)
		all = append(all, ref)
		if slices.ContainsFunc(hypothesis, func(w string) bool { return slices.Contains(ref, w) }) {
			matched = append(matched, ref)
		}
	}
	if len(matched) == 0 {
		return all
	}
	return matched
}
