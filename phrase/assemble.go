package phrase

import "github.com/ieee0824/dialectmt/alignment"

// Assemble builds a phrase table from the unigram, bigram and trigram
// counts of idx. Each key's options carry their relative frequencies, so the
// probabilities of every source sum to 1.
func Assemble(idx *alignment.Index) *Table {
	t := NewTable()
	for _, sym := range ControlSymbols {
		t.Register(sym, sym, 1)
	}
	for _, table := range []*alignment.Table{idx.Unigrams, idx.Bigrams, idx.Trigrams} {
		for _, key := range table.Keys() {
			for _, w := range table.Distribution(key) {
				t.Register(key, w.Target, w.Probability)
			}
		}
	}
	return t
}
