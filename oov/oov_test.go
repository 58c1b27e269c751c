package oov

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/dialectmt/alignment"
	"github.com/ieee0824/dialectmt/phrase"
	"github.com/ieee0824/dialectmt/vocab"
)

func newTestResolver(t *testing.T) (*Resolver, *vocab.Store) {
	t.Helper()
	uni := alignment.NewTable()
	for _, kv := range [][2]string{
		{"i", "ich"},
		{"wui", "will"},
		{"gehn", "gehen"},
		{"bia", "bier"},
		{"de", "die"},
		{"braud", "braut"},
		{"haisl", "Haus"},
		{"mocht", "macht"},
		{"au", "aus"},
		{"foin", "fallen"},
		{"frett", "frett"},
	} {
		uni.Add(kv[0], kv[1], 1)
	}
	store := vocab.New(uni, phrase.NewTable())
	return NewResolver(store, DefaultRules(), NewLedger(), nil), store
}

func TestResolveKnownSentence(t *testing.T) {
	r, _ := newTestResolver(t)
	res := r.Resolve([]string{"i", "wui", "gehn", "."})

	assert.Equal(t, []string{"i", "wui", "gehn", "."}, res.Tokens)
	assert.Empty(t, res.InTarget)
	assert.Empty(t, res.Repairs)
	assert.Empty(t, res.Masked())
	assert.Empty(t, r.Ledger().Records())
}

func TestResolveAbsorbsStandardWords(t *testing.T) {
	r, store := newTestResolver(t)
	res := r.Resolve([]string{"i", "will", "gehn"})

	assert.Equal(t, []string{"i", "will", "gehn"}, res.Tokens)
	assert.Equal(t, []Entry{{Surface: "will", Position: 1}}, res.InTarget)
	assert.True(t, store.IsSource("will"))
	assert.Equal(t, []Record{{Word: "will", Recovered: true}}, r.Ledger().Records())
}

func TestResolveStripsMarkers(t *testing.T) {
	r, _ := newTestResolver(t)
	res := r.Resolve([]string{"wu_i", `gehn\`})

	assert.Equal(t, []string{"wui", "gehn"}, res.Tokens)
	assert.Equal(t, []RepairRecord{
		{Original: "wu_i", Repaired: "wui"},
		{Original: `gehn\`, Repaired: "gehn"},
	}, res.Repairs)
}

func TestResolveVowelRules(t *testing.T) {
	tests := []struct {
		word   string
		want   string
		absorb bool
	}{
		{word: "wia", want: "bia"},
		{word: "broot", want: "braut", absorb: true},
		{word: "hoos", want: "Haus", absorb: true},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			r, store := newTestResolver(t)
			res := r.Resolve([]string{"de", tt.word})

			assert.Equal(t, []string{"de", tt.want}, res.Tokens)
			assert.Equal(t, []RepairRecord{{Original: tt.word, Repaired: tt.want}}, res.Repairs)
			assert.Empty(t, res.Masked())
			assert.True(t, store.IsSource(tt.want))
			if tt.absorb {
				best, _ := store.Best(tt.want)
				assert.Equal(t, tt.want, best)
			}
		})
	}
}

func TestResolveCompounding(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{word: "gmocht", want: "gemacht"},
		{word: "augfoin", want: "ausgefallen"},
		{word: "gfrett", want: "gefrett"},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			r, _ := newTestResolver(t)
			res := r.Resolve([]string{"i", tt.word})

			assert.Equal(t, []string{"i", tt.want}, res.Tokens)
			assert.Equal(t, []Entry{{Surface: tt.want, Position: 1}}, res.Retained)
			assert.Equal(t, res.Retained, res.Masked())
			assert.Empty(t, res.Unresolved)
			assert.Empty(t, r.Ledger().Unresolved())
		})
	}
}

func TestResolveCompoundingNeedsKnownParts(t *testing.T) {
	r, _ := newTestResolver(t)
	res := r.Resolve([]string{"gegfoin", "xgfoin", "gxyz"})

	assert.Empty(t, res.Retained)
	assert.Len(t, res.Unresolved, 3)
}

func TestResolveUnresolved(t *testing.T) {
	r, _ := newTestResolver(t)
	res := r.Resolve([]string{"de", "xyz", "i", "xyz", "qq"})

	assert.Equal(t, []Entry{
		{Surface: "xyz", Position: 1},
		{Surface: "xyz", Position: 3},
		{Surface: "qq", Position: 4},
	}, res.Unresolved)
	assert.Equal(t, []WordCount{{Word: "xyz", Count: 2}, {Word: "qq", Count: 1}}, r.Ledger().Unresolved())
}

func TestResolveDecisionsIgnoreSentenceOrder(t *testing.T) {
	r, store := newTestResolver(t)
	before := store.Size()
	res := r.Resolve([]string{"broot", "de", "broot"})

	assert.Equal(t, []string{"braut", "de", "braut"}, res.Tokens)
	assert.Len(t, res.Repairs, 2)
	assert.Equal(t, before+1, store.Size())
}

func TestMaskedIsOrdered(t *testing.T) {
	res := Resolution{
		Retained:   []Entry{{Surface: "gemacht", Position: 2}},
		Unresolved: []Entry{{Surface: "a", Position: 0}, {Surface: "b", Position: 5}},
	}
	assert.Equal(t, []Entry{
		{Surface: "a", Position: 0},
		{Surface: "gemacht", Position: 2},
		{Surface: "b", Position: 5},
	}, res.Masked())
}

func TestLedgerStats(t *testing.T) {
	r, _ := newTestResolver(t)
	r.Resolve([]string{"will", "broot", "xyz", "gmocht"})

	s := r.Ledger().Stats()
	assert.Equal(t, 4, s.Words)
	assert.Equal(t, 3, s.Recovered)
	assert.Equal(t, 1, s.Unresolved)
	assert.InDelta(t, 75.0, s.Rate, 1e-9)
	assert.Len(t, r.Ledger().Repairs(), 2)
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	require.NotEmpty(t, rules)
	compounding := 0
	for _, rule := range rules {
		assert.NotEmpty(t, rule.Pattern)
		assert.NotEmpty(t, rule.Replacements)
		if rule.Compounding {
			compounding++
			assert.Equal(t, "g", rule.Pattern)
		}
	}
	assert.Equal(t, 1, compounding)
}

func TestLoadRules(t *testing.T) {
	in := `rules:
  - pattern: oo
    replacements: [au]
  - pattern: g
    replacements: [ge]
    compounding: true
`
	rules, err := LoadRules(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []VowelRule{
		{Pattern: "oo", Replacements: []string{"au"}},
		{Pattern: "g", Replacements: []string{"ge"}, Compounding: true},
	}, rules)
}

func TestLoadRulesInvalid(t *testing.T) {
	_, err := LoadRules(strings.NewReader("rules:\n  - pattern: oo\n"))
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = LoadRules(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = LoadRules(strings.NewReader("rules: [[["))
	assert.Error(t, err)
}

func TestValidateRules(t *testing.T) {
	assert.NoError(t, ValidateRules(DefaultRules()))
	assert.ErrorIs(t, ValidateRules([]VowelRule{{Pattern: "g", Compounding: true}}), ErrInvalidRule)
	assert.ErrorIs(t, ValidateRules([]VowelRule{{Replacements: []string{"a"}}}), ErrInvalidRule)
}

func TestCompoundWithoutReplacement(t *testing.T) {
	_, store := newTestResolver(t)
	r := NewResolver(store, []VowelRule{{Pattern: "g", Compounding: true}}, nil, nil)

	assert.NotPanics(t, func() {
		res := r.Resolve([]string{"gfrett"})
		assert.Equal(t, []string{"gfrett"}, res.Tokens)
	})
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - pattern: w\n    replacements: [b]\n"), 0o644))

	rules, err := LoadRulesFile(path)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}
