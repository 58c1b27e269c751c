package decoder

// Result holds the best translation of one sentence.
type Result struct {
	Text     string    // translated sentence
	Words    []string  // translated tokens
	Segments []Segment // phrase-level details in source order
	LogScore float64   // total log score
}

// Segment is one applied phrase: the source tokens [Start, End) rendered as
// Target.
type Segment struct {
	Source  string
	Target  string
	Start   int
	End     int
	LogProb float64 // translation log probability of the phrase
}
