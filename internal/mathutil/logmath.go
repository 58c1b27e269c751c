package mathutil

import "math"

// LogZero represents log(0), used as negative infinity in log-domain arithmetic.
const LogZero = -1e30

// LogFloor is the natural-log score given to events a model has never seen.
// It is finite so that hypotheses containing unseen n-grams stay comparable.
const LogFloor = -50.0

// LogAdd returns log(exp(a) + exp(b)) in a numerically stable way.
// The smaller operand is skipped once it falls below float64 precision
// relative to the larger one (exp(-36) ≈ 2.3e-16).
func LogAdd(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	if b == LogZero {
		return a
	}
	d := b - a
	if d < -36.0 {
		return a
	}
	return a + math.Log1p(math.Exp(d))
}

// LogProb converts a probability to the natural-log domain, mapping
// non-positive values to LogZero.
func LogProb(p float64) float64 {
	if p <= 0 {
		return LogZero
	}
	return math.Log(p)
}
