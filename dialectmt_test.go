package dialectmt

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/dialectmt/alignment"
	"github.com/ieee0824/dialectmt/corpus"
	"github.com/ieee0824/dialectmt/decoder"
	"github.com/ieee0824/dialectmt/language"
	"github.com/ieee0824/dialectmt/oov"
)

var trainRows = []corpus.Pair{
	{Dialect: "i wui gehn", Standard: "ich will gehen"},
	{Dialect: "i wui ham [lachen]", Standard: "ich will heim"},
	{Dialect: "des is guat", Standard: "das ist gut"},
	{Dialect: "de braud is do", Standard: "die braut ist da"},
	{Dialect: "i wui wui gehn", Standard: "ich will gehen"},
	{Dialect: "so a gfrett", Standard: "so ein gfrett"},
	{Dialect: "mocht er", Standard: "macht er"},
	{Dialect: "des is", Standard: "das #"},
}

func newTestTranslator(t *testing.T, opts ...Option) *Translator {
	t.Helper()
	tr, err := New(trainRows, opts...)
	require.NoError(t, err)
	return tr
}

func TestNewBuildsModel(t *testing.T) {
	tr := newTestTranslator(t)

	stats := tr.Corpus.Stats()
	assert.Equal(t, 7, stats.Pairs)
	assert.Equal(t, 1, stats.Repaired)
	assert.Equal(t, 1, stats.Artifacts)
	assert.True(t, tr.Index.Unigrams.Has("wui"))
	assert.True(t, tr.Phrases.Has(corpus.UnknownTag))
}

func TestNewIsDeterministic(t *testing.T) {
	a := newTestTranslator(t)
	b := newTestTranslator(t)
	assert.True(t, a.Index.Equal(b.Index))
	assert.Equal(t, a.Phrases.Sources(), b.Phrases.Sources())
}

func TestNewEmptyCorpus(t *testing.T) {
	_, err := New([]corpus.Pair{{Dialect: "a b", Standard: "x"}})
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	_, err = New(nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestNewRejectsReordering(t *testing.T) {
	cfg := decoder.DefaultConfig()
	cfg.DistortionFactor = 1
	_, err := New(trainRows, WithDecoderConfig(cfg))
	assert.ErrorIs(t, err, decoder.ErrReordering)
}

func TestTranslate(t *testing.T) {
	tr := newTestTranslator(t)
	tests := []struct {
		in, want string
	}{
		{"i wui gehn", "ich will gehen"},
		{"  I  WUI   ham ", "ich will heim"},
		{"des is guat", "das ist gut"},
		{"de braud is do", "die braut ist da"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tr.Translate(tt.in), "Translate(%q)", tt.in)
	}
	assert.Empty(t, tr.OOVRecords())
}

func TestTranslateNotApplicable(t *testing.T) {
	tr := newTestTranslator(t)
	for _, in := range []string{"", "   ", "N/A", "n/a"} {
		assert.Equal(t, NotApplicable, tr.Translate(in), "Translate(%q)", in)
	}
}

func TestTranslateKeepsUnknownWords(t *testing.T) {
	tr := newTestTranslator(t)

	assert.Equal(t, "die UNKNOWNWORD gfrett", tr.Translate("de UNKNOWNWORD gfrett"))
	assert.Equal(t, []oov.Record{{Word: "unknownword"}}, tr.OOVRecords())
	assert.Equal(t, []oov.WordCount{{Word: "unknownword", Count: 1}}, tr.Ledger.Unresolved())
}

func TestTranslateRepairsVowels(t *testing.T) {
	tr := newTestTranslator(t)

	assert.Equal(t, "die braut ist da", tr.Translate("de broot is do"))
	assert.Equal(t, []oov.RepairRecord{{Original: "broot", Repaired: "braut"}}, tr.Repairs())
	assert.True(t, tr.Vocab.IsSource("braut"))
}

func TestTranslateAbsorbsStandardWords(t *testing.T) {
	tr := newTestTranslator(t)

	assert.Equal(t, "ich will gehen", tr.Translate("ich wui gehn"))
	assert.True(t, tr.Vocab.IsSource("ich"))
	assert.Equal(t, oov.Stats{Words: 1, Recovered: 1, Rate: 100}, tr.OOVStats())
}

func TestTranslateAbsorbedWordIsKnownNextTime(t *testing.T) {
	tr := newTestTranslator(t)

	require.Equal(t, "ich will gehen", tr.Translate("ich wui gehn"))
	want := []oov.Record{{Word: "ich", Recovered: true}}
	require.Equal(t, want, tr.OOVRecords())
	cands := tr.Index.Unigrams.Candidates("ich")

	assert.Equal(t, "ich will gehen", tr.Translate("ich wui gehn"))
	assert.Equal(t, want, tr.OOVRecords(), "second request finds the word directly")
	assert.Equal(t, cands, tr.Index.Unigrams.Candidates("ich"))
	assert.Empty(t, tr.Repairs())
}

func TestNewRejectsInvalidRules(t *testing.T) {
	_, err := New(trainRows, WithRules([]oov.VowelRule{{Pattern: "g", Compounding: true}}))
	assert.ErrorIs(t, err, oov.ErrInvalidRule)
}

func TestTranslateRetainsCompounds(t *testing.T) {
	tr := newTestTranslator(t)

	assert.Equal(t, "das ist gemacht", tr.Translate("des is gmocht"))
	assert.Equal(t, []oov.RepairRecord{{Original: "gmocht", Repaired: "gemacht"}}, tr.Repairs())
	assert.Empty(t, tr.Ledger.Unresolved())
}

type echoDecoder struct {
	inputs [][]string
}

func (d *echoDecoder) Translate(words []string) []string {
	d.inputs = append(d.inputs, append([]string(nil), words...))
	return words
}

func TestTranslateMasksForDecoder(t *testing.T) {
	dec := &echoDecoder{}
	tr := newTestTranslator(t, WithDecoder(dec))

	out := tr.Translate("de UNKNOWNWORD gfrett xyz")
	require.Len(t, dec.inputs, 1)
	assert.Equal(t, []string{"de", corpus.UnknownTag, "gfrett", corpus.UnknownTag}, dec.inputs[0])
	assert.Equal(t, "de UNKNOWNWORD gfrett xyz", out)
}

func TestSplice(t *testing.T) {
	tests := []struct {
		name string
		out  []string
		fill []string
		want []string
	}{
		{"in order", []string{"a", "<UNK>", "b", "<UNK>"}, []string{"x", "y"}, []string{"a", "x", "b", "y"}},
		{"surplus tags", []string{"<UNK>", "<UNK>"}, []string{"x"}, []string{"x", "<UNK>"}},
		{"surplus fill", []string{"a", "<UNK>"}, []string{"x", "y"}, []string{"a", "x"}},
		{"nothing masked", []string{"a"}, nil, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splice(tt.out, tt.fill))
		})
	}
}

func TestTranslateConcurrent(t *testing.T) {
	tr := newTestTranslator(t)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "die braut ist da", tr.Translate("de broot is do"))
		}()
	}
	wg.Wait()

	// the first call absorbs braut; later calls rewrite onto the new key
	repairs := tr.Repairs()
	assert.Len(t, repairs, 8)
	for _, r := range repairs {
		assert.Equal(t, oov.RepairRecord{Original: "broot", Repaired: "braut"}, r)
	}
	assert.Equal(t, []alignment.Candidate{{Target: "braut", Count: 1}}, tr.Index.Unigrams.Candidates("braut"))
}

func TestWithARPA(t *testing.T) {
	b := language.NewBuilder(3)
	for _, p := range trainRows {
		b.AddSentence(strings.Fields(p.Standard))
	}
	path := filepath.Join(t.TempDir(), "lm.arpa")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, b.WriteARPA(f))
	require.NoError(t, f.Close())

	tr := newTestTranslator(t, WithARPA(path), WithOOVLogProb(-5))
	lm, ok := tr.LM.(*language.NGramModel)
	require.True(t, ok)
	assert.NotZero(t, lm.OOVLogProb)
	assert.Equal(t, "ich will gehen", tr.Translate("i wui gehn"))

	_, err = New(trainRows, WithARPA(filepath.Join(t.TempDir(), "missing.arpa")))
	assert.Error(t, err)
}

func TestWithLanguageModel(t *testing.T) {
	lm := language.BuildFrequencyModel([]string{"ich will heim"})
	tr := newTestTranslator(t, WithLanguageModel(lm))
	assert.Same(t, lm, tr.LM)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.tsv")
	var sb strings.Builder
	sb.WriteString("sentorig\tsentorth\n")
	for _, p := range trainRows {
		sb.WriteString(p.Dialect + "\t" + p.Standard + "\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	tr, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ich will gehen", tr.Translate("i wui gehn"))

	_, err = NewFromFile(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.Error(t, err)
}

func TestUnigramsStayConsistent(t *testing.T) {
	tr := newTestTranslator(t)
	tr.Translate("ich wui gehn")

	// absorbed words never disturb existing keys
	assert.Equal(t, []alignment.Candidate{{Target: "will", Count: 3}}, tr.Index.Unigrams.Candidates("wui"))
	assert.Equal(t, []alignment.Candidate{{Target: "ich", Count: 1}}, tr.Index.Unigrams.Candidates("ich"))
}
