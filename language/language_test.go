package language

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/dialectmt/internal/mathutil"
)

const testARPA = `\data\
ngram 1=4
ngram 2=3

\1-grams:
-1.0	</s>
-1.0	<s>	-0.5
-0.5	ich
-0.7	will	-0.3

\2-grams:
-0.3	<s>	ich
-0.4	ich	will
-0.2	will	</s>

\end\
`

func loadTestModel(t *testing.T) *NGramModel {
	t.Helper()
	m, err := LoadARPA(strings.NewReader(testARPA))
	require.NoError(t, err)
	return m
}

func TestLoadARPA(t *testing.T) {
	m := loadTestModel(t)
	assert.Equal(t, 2, m.Order)
	assert.Len(t, m.Unigrams, 4)
	assert.Len(t, m.Bigrams, 3)
	assert.InDelta(t, -0.5*math.Ln10, m.Unigrams["ich"].LogProb, 1e-10)
	assert.InDelta(t, -0.3*math.Ln10, m.Unigrams["will"].LogBackoff, 1e-10)
	assert.ElementsMatch(t, []string{"<s>", "</s>", "ich", "will"}, m.Vocab())
}

func TestLoadARPAErrors(t *testing.T) {
	_, err := LoadARPA(strings.NewReader("no header here\n"))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = LoadARPA(strings.NewReader("\\data\\\nngram 1=1\n\n\\1-grams:\nabc ich\n\\end\\\n"))
	assert.ErrorContains(t, err, "line 5")

	_, err = LoadARPA(strings.NewReader("\\data\\\nngram 2=1\n\n\\2-grams:\n-0.1 ich\n\\end\\\n"))
	assert.Error(t, err)
}

func TestLoadARPAFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lm.arpa")
	require.NoError(t, os.WriteFile(path, []byte(testARPA), 0o644))

	m, err := LoadARPAFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Order)
}

func TestLogProbBigram(t *testing.T) {
	m := loadTestModel(t)
	assert.InDelta(t, -0.3*math.Ln10, m.LogProb([]string{"<s>"}, "ich"), 1e-10)
}

func TestLogProbBackoff(t *testing.T) {
	m := loadTestModel(t)
	// no "will ich" bigram: backoff(will) + P(ich)
	want := -0.3*math.Ln10 + -0.5*math.Ln10
	assert.InDelta(t, want, m.LogProb([]string{"will"}, "ich"), 1e-10)
}

func TestLogProbOOV(t *testing.T) {
	m := loadTestModel(t)
	assert.Equal(t, mathutil.LogZero, m.LogProb(nil, "haus"))

	m.OOVLogProb = -5 * math.Ln10
	assert.InDelta(t, -5*math.Ln10, m.LogProb(nil, "haus"), 1e-10)
}

func TestSentenceLogProb(t *testing.T) {
	m := loadTestModel(t)
	want := -0.3*math.Ln10 + -0.4*math.Ln10 + -0.2*math.Ln10
	assert.InDelta(t, want, m.SentenceLogProb([]string{"ich", "will"}), 1e-10)
}

func TestNGramProbabilityGivenContext(t *testing.T) {
	m := loadTestModel(t)

	got := m.ProbabilityGivenContext(nil, []string{"ich", "will"})
	assert.InDelta(t, -0.7*math.Ln10, got, 1e-10)

	got = m.ProbabilityGivenContext([]string{"ich"}, []string{"will", "</s>"})
	assert.InDelta(t, -0.6*math.Ln10, got, 1e-10)

	assert.InDelta(t, -0.4*math.Ln10, m.Probability([]string{"ich", "will"}), 1e-10)
	assert.Zero(t, m.Probability(nil))
}

func TestFrequencyModel(t *testing.T) {
	m := BuildFrequencyModel([]string{"ich will gehen", "ich will heim", ""})

	// each sentence contributes len+2 trigrams
	assert.Equal(t, 8, m.Len())
	assert.InDelta(t, math.Log(2.0/10.0), m.Probability([]string{"<s>", "<s>", "ich"}), 1e-12)
	assert.InDelta(t, math.Log(1.0/10.0), m.Probability([]string{"ich", "will", "gehen"}), 1e-12)
	assert.Equal(t, mathutil.LogFloor, m.Probability([]string{"will", "ich", "gehen"}))
	assert.Equal(t, mathutil.LogFloor, m.Probability([]string{"ich", "will"}))
}

func TestFrequencyModelGivenContext(t *testing.T) {
	m := BuildFrequencyModel([]string{"ich will gehen", "ich will heim"})

	start := m.ProbabilityGivenContext(nil, []string{"ich", "will"})
	want := math.Log(2.0/10.0) + math.Log(2.0/10.0)
	assert.InDelta(t, want, start, 1e-12)

	cont := m.ProbabilityGivenContext([]string{"ich", "will"}, []string{"heim"})
	assert.InDelta(t, math.Log(1.0/10.0), cont, 1e-12)

	short := m.ProbabilityGivenContext([]string{"ich"}, []string{"will"})
	assert.InDelta(t, math.Log(2.0/10.0), short, 1e-12)

	unseen := m.ProbabilityGivenContext([]string{"ich", "will"}, []string{"haus", "gehen"})
	assert.Equal(t, 2*mathutil.LogFloor, unseen)
}

func TestFrequencyModelEmpty(t *testing.T) {
	m := NewFrequencyModel()
	assert.Equal(t, mathutil.LogFloor, m.Probability([]string{"<s>", "<s>", "ich"}))
}
