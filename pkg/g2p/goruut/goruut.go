// Package goruut provides an in-process grapheme-to-phoneme backend built on
// the goruut phonemizer. It implements [g2p.Backend] with no network I/O and
// no external binaries, which makes it the default backend: deterministic,
// dependency-free at runtime, and fast enough to run per segment.
//
// Dialect selection maps onto goruut language names ("English" for American,
// "EnglishBritish" for British).
package goruut

import (
	"context"
	"strings"

	"github.com/neurlang/goruut/lib"
	"github.com/neurlang/goruut/models/requests"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

// Compile-time interface assertion.
var _ g2p.Backend = (*Backend)(nil)

// Backend is a goruut-backed [g2p.Backend]. The underlying phonemizer loads
// its dictionaries lazily per language on first use and is safe for
// concurrent use afterwards.
type Backend struct {
	p *lib.Phonemizer
}

// New returns a Backend with a fresh goruut phonemizer instance.
func New() *Backend {
	return &Backend{p: lib.NewPhonemizer(nil)}
}

// Convert phonemizes text in the given dialect. goruut works sentence-wise
// and returns per-word phonetic transcriptions; words join with single
// spaces, matching the segment-level contract of the pipeline.
//
// The conversion itself is synchronous CPU work; ctx is checked before it
// starts so an already-cancelled call returns immediately.
func (b *Backend) Convert(ctx context.Context, text string, dialect g2p.Dialect) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resp := b.p.Sentence(requests.PhonemizeSentence{
		Language: dialect.GoruutLanguage(),
		Sentence: text,
	})

	var sb strings.Builder
	for i, word := range resp.Words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word.Phonetic)
	}
	return sb.String(), nil
}
