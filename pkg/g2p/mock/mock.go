// Package mock provides a test double for the g2p.Backend interface.
//
// Use Backend to return controlled phoneme strings and to verify which
// segments (and dialects) the pipeline hands to the backend.
//
// Example:
//
//	b := &mock.Backend{
//	    ConvertFunc: func(_ context.Context, text string, _ g2p.Dialect) (string, error) {
//	        return "[" + text + "]", nil
//	    },
//	}
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

// Compile-time interface assertion.
var _ g2p.Backend = (*Backend)(nil)

// ConvertCall records a single invocation of Convert.
type ConvertCall struct {
	// Text is the segment text passed to Convert.
	Text string
	// Dialect is the dialect passed to Convert.
	Dialect g2p.Dialect
}

// Backend is a mock implementation of g2p.Backend.
type Backend struct {
	mu sync.Mutex

	// ConvertFunc computes the result of Convert. When nil, Convert returns
	// its input text unchanged.
	ConvertFunc func(ctx context.Context, text string, dialect g2p.Dialect) (string, error)

	// ConvertErr, if non-nil, is returned from every Convert call instead of
	// invoking ConvertFunc.
	ConvertErr error

	// ConvertCalls records every call to Convert in order.
	ConvertCalls []ConvertCall
}

// Convert records the call and returns the configured result.
func (b *Backend) Convert(ctx context.Context, text string, dialect g2p.Dialect) (string, error) {
	b.mu.Lock()
	b.ConvertCalls = append(b.ConvertCalls, ConvertCall{Text: text, Dialect: dialect})
	b.mu.Unlock()

	if b.ConvertErr != nil {
		return "", b.ConvertErr
	}
	if b.ConvertFunc != nil {
		return b.ConvertFunc(ctx, text, dialect)
	}
	return text, nil
}

// Calls returns a copy of the recorded Convert calls.
func (b *Backend) Calls() []ConvertCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ConvertCall, len(b.ConvertCalls))
	copy(out, b.ConvertCalls)
	return out
}
