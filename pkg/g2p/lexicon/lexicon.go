// Package lexicon provides a dictionary-backed [g2p.Backend] for offline and
// deterministic-test use.
//
// Lookup proceeds in two stages per word:
//
//  1. Exact match: the lowercased word is looked up in the pronunciation
//     dictionary.
//
//  2. Fuzzy fallback: for out-of-vocabulary words, Double Metaphone codes
//     are computed for the word and for every dictionary headword. Entries
//     sharing at least one code become candidates, ranked by Jaro-Winkler
//     similarity on the original strings; the best candidate above the
//     configurable threshold wins.
//
// Words that fail both stages fail the conversion (and with it the whole
// phonemize call), unless the backend is constructed with [WithSkipUnknown],
// in which case the word is passed through untranscribed.
package lexicon

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

// Compile-time interface assertion.
var _ g2p.Backend = (*Backend)(nil)

// defaultFuzzyThreshold is the minimum Jaro-Winkler score for a fuzzy
// dictionary match to be accepted.
const defaultFuzzyThreshold = 0.85

// Option is a functional option for configuring a lexicon Backend.
type Option func(*Backend)

// WithFuzzyThreshold sets the minimum Jaro-Winkler score required for an
// out-of-vocabulary word to borrow a dictionary entry's pronunciation.
// Default: 0.85.
func WithFuzzyThreshold(threshold float64) Option {
	return func(b *Backend) {
		b.fuzzyThreshold = threshold
	}
}

// WithSkipUnknown makes unknown words pass through untranscribed instead of
// failing the conversion.
func WithSkipUnknown() Option {
	return func(b *Backend) {
		b.skipUnknown = true
	}
}

// Backend is a dictionary-backed [g2p.Backend]. It is read-only after
// construction and safe for concurrent use.
type Backend struct {
	pronunciations map[string]string
	headwords      []string // sorted, for deterministic fuzzy ranking
	codes          map[string][]string
	fuzzyThreshold float64
	skipUnknown    bool
}

// New creates a Backend from a word → phonemes pronunciation map. Headwords
// are lowercased; the map is copied.
func New(pronunciations map[string]string, opts ...Option) *Backend {
	b := &Backend{
		pronunciations: make(map[string]string, len(pronunciations)),
		codes:          make(map[string][]string, len(pronunciations)),
		fuzzyThreshold: defaultFuzzyThreshold,
	}
	for word, phonemes := range pronunciations {
		word = strings.ToLower(word)
		b.pronunciations[word] = phonemes
		primary, secondary := matchr.DoubleMetaphone(word)
		var cs []string
		if primary != "" {
			cs = append(cs, primary)
		}
		if secondary != "" {
			cs = append(cs, secondary)
		}
		b.codes[word] = cs
	}
	b.headwords = make([]string, 0, len(b.pronunciations))
	for word := range b.pronunciations {
		b.headwords = append(b.headwords, word)
	}
	sort.Strings(b.headwords)
	for _, o := range opts {
		o(b)
	}
	return b
}

// Convert transcribes text word by word. The dialect is ignored — a lexicon
// carries exactly one pronunciation variant; load separate dictionaries for
// separate dialects.
func (b *Backend) Convert(ctx context.Context, text string, _ g2p.Dialect) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, word := range words {
		phonemes, ok := b.lookup(word)
		if !ok {
			if b.skipUnknown {
				out = append(out, word)
				continue
			}
			return "", fmt.Errorf("lexicon: no pronunciation for %q", word)
		}
		out = append(out, phonemes)
	}
	return strings.Join(out, " "), nil
}

// lookup resolves a single word: exact match first, then the phonetic fuzzy
// fallback.
func (b *Backend) lookup(word string) (string, bool) {
	lower := strings.ToLower(word)
	if phonemes, ok := b.pronunciations[lower]; ok {
		return phonemes, true
	}

	primary, secondary := matchr.DoubleMetaphone(lower)

	best := ""
	bestScore := 0.0
	for _, headword := range b.headwords {
		if !codesOverlap(b.codes[headword], primary, secondary) {
			continue
		}
		score := matchr.JaroWinkler(lower, headword, false)
		if score > bestScore {
			best, bestScore = headword, score
		}
	}
	if best == "" || bestScore < b.fuzzyThreshold {
		return "", false
	}
	return b.pronunciations[best], true
}

// codesOverlap reports whether any of the headword's Double Metaphone codes
// equals the word's primary or secondary code.
func codesOverlap(headwordCodes []string, primary, secondary string) bool {
	for _, c := range headwordCodes {
		if (primary != "" && c == primary) || (secondary != "" && c == secondary) {
			return true
		}
	}
	return false
}
