package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by [Registry.Style] after [Registry.Close].
var ErrClosed = errors.New("voice: registry is closed")

// Style is the style-data blob the synthesis stage consumes for one voice.
// The phonemization core never interprets the bytes.
type Style struct {
	// VoiceID is the selector this style belongs to.
	VoiceID string

	// Data is the opaque style payload.
	Data []byte
}

// Fetcher retrieves style data for a voice from wherever it lives (local
// files, a model bundle, an HTTP endpoint). Implementations must be safe
// for concurrent use; the Registry already guarantees it will not issue two
// concurrent fetches for the same key.
type Fetcher interface {
	FetchStyle(ctx context.Context, voiceID string) (*Style, error)
}

// Registry is a guarded, lazily-initialized cache of voice style data keyed
// by voice selector.
//
// Concurrency discipline: for each key there is at most one outstanding
// fetch. The first caller performs it; concurrent callers for the same key
// block on that fetch and share its result. Successful fetches are cached;
// failed fetches are not, so the next caller retries.
//
// Teardown: [Registry.Close] drops the cache and fails subsequent lookups
// with [ErrClosed]. In-flight fetches complete but their results are
// discarded.
type Registry struct {
	fetcher Fetcher
	group   singleflight.Group

	mu     sync.RWMutex
	styles map[string]*Style
	closed bool
}

// NewRegistry returns a Registry that resolves cache misses through fetcher.
func NewRegistry(fetcher Fetcher) *Registry {
	return &Registry{
		fetcher: fetcher,
		styles:  make(map[string]*Style),
	}
}

// Style returns the style data for voiceID, fetching it on first use.
//
// Note that when several callers race on a cold key, the fetch runs under
// the first caller's ctx; a later caller can therefore receive a
// cancellation error triggered by the first caller. This is the standard
// singleflight trade-off and acceptable here because style fetches are
// short-lived.
func (r *Registry) Style(ctx context.Context, voiceID string) (*Style, error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, ErrClosed
	}
	if s, ok := r.styles[voiceID]; ok {
		r.mu.RUnlock()
		return s, nil
	}
	r.mu.RUnlock()

	v, err, _ := r.group.Do(voiceID, func() (any, error) {
		// Re-check under the flight: a caller that lost the race to an
		// already-completed fetch must not trigger a second one.
		r.mu.RLock()
		if s, ok := r.styles[voiceID]; ok {
			r.mu.RUnlock()
			return s, nil
		}
		r.mu.RUnlock()

		s, err := r.fetcher.FetchStyle(ctx, voiceID)
		if err != nil {
			return nil, fmt.Errorf("voice: fetch style for %q: %w", voiceID, err)
		}
		r.mu.Lock()
		if !r.closed {
			r.styles[voiceID] = s
		}
		r.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Style), nil
}

// Evict drops the cached style for voiceID, forcing the next [Registry.Style]
// call to fetch again.
func (r *Registry) Evict(voiceID string) {
	r.group.Forget(voiceID)
	r.mu.Lock()
	delete(r.styles, voiceID)
	r.mu.Unlock()
}

// Close drops all cached styles and marks the registry closed. Safe to call
// more than once.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	r.styles = nil
	r.mu.Unlock()
}
