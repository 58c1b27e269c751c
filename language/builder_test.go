package language

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderBigram(t *testing.T) {
	b := NewBuilder(2)
	b.AddText([]string{"ich will gehen", "ich will heim", "ich gehe heim", ""})

	var buf bytes.Buffer
	require.NoError(t, b.WriteARPA(&buf))
	arpa := buf.String()

	assert.Contains(t, arpa, `\data\`)
	assert.Contains(t, arpa, `\1-grams:`)
	assert.Contains(t, arpa, `\2-grams:`)
	assert.NotContains(t, arpa, `\3-grams:`)
	assert.Contains(t, arpa, `\end\`)

	m, err := LoadARPA(strings.NewReader(arpa))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Order)
	assert.Contains(t, m.Vocab(), "will")

	score := m.SentenceLogProb([]string{"ich", "will", "heim"})
	assert.False(t, math.IsNaN(score) || math.IsInf(score, 0))
}

func TestBuilderTrigram(t *testing.T) {
	b := NewBuilder(3)
	b.AddSentence([]string{"das", "ist", "ein", "gutes", "haus"})
	b.AddSentence([]string{"das", "ist", "gut"})
	b.AddSentence([]string{"dies", "ist", "ein", "gutes", "haus"})

	var buf bytes.Buffer
	require.NoError(t, b.WriteARPA(&buf))
	assert.Contains(t, buf.String(), `\3-grams:`)

	m, err := LoadARPA(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Order)

	seen := m.SentenceLogProb([]string{"das", "ist", "ein", "gutes", "haus"})
	unseen := m.SentenceLogProb([]string{"das", "ist", "gutes", "ein", "haus"})
	assert.Greater(t, seen, unseen)
}

func TestBuilderBuildMatchesARPA(t *testing.T) {
	b := NewBuilder(3)
	b.AddText([]string{"ich will gehen", "ich will heim", "du willst heim"})

	var buf bytes.Buffer
	require.NoError(t, b.WriteARPA(&buf))
	loaded, err := LoadARPA(&buf)
	require.NoError(t, err)

	built := b.Build()
	for _, words := range [][]string{
		{"ich", "will", "heim"},
		{"du", "will", "gehen"},
		{"heim"},
	} {
		// ARPA rounds to six decimals
		assert.InDelta(t, loaded.SentenceLogProb(words), built.SentenceLogProb(words), 1e-4, "%v", words)
	}
}

func TestBuilderProbabilitiesAreNegative(t *testing.T) {
	b := NewBuilder(2)
	b.AddText([]string{"a b", "a b c", "b c"})
	m := b.Build()

	for w, e := range m.Unigrams {
		assert.Less(t, e.LogProb, 0.0, w)
		assert.False(t, math.IsInf(e.LogProb, 0), w)
	}
	for k, e := range m.Bigrams {
		assert.Less(t, e.LogProb, 0.0, "%v", k)
	}
}

func TestNewBuilderClampsOrder(t *testing.T) {
	assert.Equal(t, 2, NewBuilder(1).order)
	assert.Equal(t, 3, NewBuilder(5).order)
}
