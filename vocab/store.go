// Package vocab guards the translation-time vocabulary: the unigram
// alignment table and the phrase table that out-of-vocabulary handling
// consults and extends.
package vocab

import (
	"sync"

	"github.com/ieee0824/dialectmt/alignment"
	"github.com/ieee0824/dialectmt/phrase"
)

// Store serializes reads and writes of the unigram table. Absorbed words are
// registered as identity phrases so the decoder translates them to
// themselves.
type Store struct {
	mu       sync.RWMutex
	unigrams *alignment.Table
	phrases  *phrase.Table
}

// New wraps the tables. The caller must not mutate unigrams afterwards
// except through the store.
func New(unigrams *alignment.Table, phrases *phrase.Table) *Store {
	return &Store{unigrams: unigrams, phrases: phrases}
}

// IsSource reports whether word is a known dialect word.
func (s *Store) IsSource(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unigrams.Has(word)
}

// IsTarget reports whether word occurs as a standard translation.
func (s *Store) IsTarget(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unigrams.HasTarget(word)
}

// Best returns the most frequent standard translation of word.
func (s *Store) Best(word string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unigrams.Best(word)
}

// Absorb makes word a dialect key that translates to itself. Existing keys
// are left untouched. It reports whether the vocabulary changed.
func (s *Store) Absorb(word string) bool {
	s.mu.Lock()
	added := s.unigrams.InsertIfAbsent(word, word)
	s.mu.Unlock()

	if added {
		s.phrases.Register(word, word, 1)
	}
	return added
}

// Size returns the number of dialect keys.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unigrams.Len()
}
