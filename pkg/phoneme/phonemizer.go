// Package phoneme composes the Phonoglyph pipeline into a single
// phonemization call: normalization, lossless punctuation segmentation,
// per-segment grapheme-to-phoneme conversion, and phoneme post-processing.
//
// The flow of one [Phonemizer.Phonemize] call:
//
//  1. The input text is normalized (see [norm.Normalize]) unless the request
//     opts out.
//  2. The normalized text is split on the fixed [Punctuation] set.
//     Punctuation segments pass through verbatim; content segments are
//     converted by the configured [g2p.Backend].
//  3. Content conversions are dispatched concurrently (bounded by the
//     concurrency option) and reassembled by segment index, so output order
//     never depends on completion order. The first backend error cancels the
//     remaining conversions and fails the whole call — no partial output is
//     ever returned.
//  4. The joined phoneme string runs through the fixed post-processing
//     substitution table, plus the dialect-specific rules for the requested
//     dialect, and is trimmed.
//
// Each call is one stateless transformation; nothing persists between calls.
package phoneme

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
	"github.com/MrWong99/phonoglyph/pkg/norm"
	"github.com/MrWong99/phonoglyph/pkg/segment"
)

// Punctuation is the fixed character set used to segment normalized text.
// Punctuation runs (with their surrounding whitespace) are carried through to
// the output verbatim.
const Punctuation = `;:,.!?¡¿—…"«»“”(){}[]`

// defaultConcurrency bounds how many segment conversions may be in flight at
// once. Backends doing network I/O benefit from parallelism; in-process
// backends are simply called from a few goroutines.
const defaultConcurrency = 4

// Option is a functional option for configuring a [Phonemizer].
type Option func(*Phonemizer)

// WithConcurrency sets the maximum number of concurrent backend conversions
// per call. Values below 1 force sequential conversion. Default: 4.
func WithConcurrency(n int) Option {
	return func(p *Phonemizer) {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
	}
}

// Request describes one phonemization call.
type Request struct {
	// Text is the raw input text.
	Text string

	// Dialect selects the pronunciation variant. The zero value selects
	// [g2p.DefaultDialect].
	Dialect g2p.Dialect

	// SkipNormalize bypasses the normalization stage. Use only when the
	// input is already normalized — the chunker invariants are stated over
	// post-normalization text.
	SkipNormalize bool
}

// Phonemizer converts text into phoneme strings using a [g2p.Backend].
// It is read-only after construction and safe for concurrent use.
type Phonemizer struct {
	backend     g2p.Backend
	splitter    *segment.Splitter
	concurrency int
}

// New returns a Phonemizer using backend for grapheme-to-phoneme conversion.
func New(backend g2p.Backend, opts ...Option) *Phonemizer {
	splitter, err := segment.NewSplitter(Punctuation)
	if err != nil {
		// Punctuation is a compile-time constant; this cannot fail.
		panic("phoneme: compile punctuation splitter: " + err.Error())
	}
	p := &Phonemizer{
		backend:     backend,
		splitter:    splitter,
		concurrency: defaultConcurrency,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Result carries the output of one phonemize call together with
// segmentation statistics.
type Result struct {
	// Phonemes is the final phoneme string.
	Phonemes string

	// Dialect is the dialect the call actually used (after the default
	// fallback).
	Dialect g2p.Dialect

	// Segments is the total number of segments the chunker produced.
	Segments int

	// ContentSegments is the number of segments handed to the backend.
	ContentSegments int
}

// Phonemize converts req.Text into a phoneme string.
//
// Cancelling ctx cancels in-flight backend conversions and fails the call.
// Any backend error fails the call with no partial output.
func (p *Phonemizer) Phonemize(ctx context.Context, req Request) (string, error) {
	res, err := p.PhonemizeResult(ctx, req)
	if err != nil {
		return "", err
	}
	return res.Phonemes, nil
}

// PhonemizeResult is [Phonemizer.Phonemize] with segmentation statistics,
// for callers that record pipeline metrics.
func (p *Phonemizer) PhonemizeResult(ctx context.Context, req Request) (*Result, error) {
	dialect := req.Dialect
	if !dialect.IsValid() {
		dialect = g2p.DefaultDialect
	}

	text := req.Text
	if !req.SkipNormalize {
		text = norm.Normalize(text)
	}

	segs := p.splitter.Split(text)
	results := make([]string, len(segs))
	content := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, seg := range segs {
		if seg.IsPunctuation {
			results[i] = seg.Text
			continue
		}
		content++
		g.Go(func() error {
			out, err := p.backend.Convert(gctx, seg.Text, dialect)
			if err != nil {
				return fmt.Errorf("phoneme: convert segment %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Segment outputs join with no separator: whitespace travels inside the
	// punctuation segments.
	return &Result{
		Phonemes:        postProcess(strings.Join(results, ""), dialect),
		Dialect:         dialect,
		Segments:        len(segs),
		ContentSegments: content,
	}, nil
}
