package voice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// stubFetcher counts fetches and can be toggled to fail.
type stubFetcher struct {
	fetches atomic.Int64
	fail    atomic.Bool

	// gate, when non-nil, blocks every fetch until it is closed.
	gate chan struct{}
}

func (f *stubFetcher) FetchStyle(_ context.Context, voiceID string) (*Style, error) {
	f.fetches.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.fail.Load() {
		return nil, errors.New("store unavailable")
	}
	return &Style{VoiceID: voiceID, Data: []byte(voiceID)}, nil
}

func TestRegistry_FetchOnceThenCache(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	r := NewRegistry(f)

	for range 3 {
		s, err := r.Style(context.Background(), "am_michael")
		if err != nil {
			t.Fatalf("Style: %v", err)
		}
		if s.VoiceID != "am_michael" {
			t.Errorf("VoiceID = %q, want %q", s.VoiceID, "am_michael")
		}
	}
	if n := f.fetches.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}

func TestRegistry_ConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{gate: make(chan struct{})}
	r := NewRegistry(f)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Style(context.Background(), "bf_emma"); err != nil {
				t.Errorf("Style: %v", err)
			}
		}()
	}
	close(f.gate)
	wg.Wait()

	if n := f.fetches.Load(); n != 1 {
		t.Errorf("fetches = %d, want 1", n)
	}
}

func TestRegistry_FailedFetchNotCached(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	f.fail.Store(true)
	r := NewRegistry(f)

	if _, err := r.Style(context.Background(), "am_michael"); err == nil {
		t.Fatal("expected fetch error")
	}

	f.fail.Store(false)
	if _, err := r.Style(context.Background(), "am_michael"); err != nil {
		t.Fatalf("Style after recovery: %v", err)
	}
	if n := f.fetches.Load(); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}

func TestRegistry_Evict(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	r := NewRegistry(f)

	if _, err := r.Style(context.Background(), "am_michael"); err != nil {
		t.Fatalf("Style: %v", err)
	}
	r.Evict("am_michael")
	if _, err := r.Style(context.Background(), "am_michael"); err != nil {
		t.Fatalf("Style after evict: %v", err)
	}
	if n := f.fetches.Load(); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
}

func TestRegistry_Close(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	r := NewRegistry(f)

	if _, err := r.Style(context.Background(), "am_michael"); err != nil {
		t.Fatalf("Style: %v", err)
	}
	r.Close()

	if _, err := r.Style(context.Background(), "am_michael"); !errors.Is(err, ErrClosed) {
		t.Errorf("Style after Close = %v, want ErrClosed", err)
	}

	// Closing twice is fine.
	r.Close()
}
