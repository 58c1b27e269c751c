// Package evaluate scores translations against standard-German references.
package evaluate

// EditDistance computes the Levenshtein distance between two token
// sequences.
func EditDistance[T comparable](a, b []T) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// single-row DP, two buffers swapped per row
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

// WER returns the word error rate of hypothesis against reference: the
// word-level edit distance divided by the reference length. An empty
// reference scores 0 against an empty hypothesis and 1 otherwise.
func WER(reference, hypothesis []string) float64 {
	if len(reference) == 0 {
		if len(hypothesis) == 0 {
			return 0
		}
		return 1
	}
	return float64(EditDistance(reference, hypothesis)) / float64(len(reference))
}
