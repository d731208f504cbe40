package phoneme

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
	"github.com/MrWong99/phonoglyph/pkg/g2p/mock"
)

// upperBackend returns a mock that uppercases each segment, which survives
// post-processing unchanged (all substitution rules target lowercase phoneme
// symbols).
func upperBackend() *mock.Backend {
	return &mock.Backend{
		ConvertFunc: func(_ context.Context, text string, _ g2p.Dialect) (string, error) {
			return strings.ToUpper(text), nil
		},
	}
}

func TestPhonemize_PunctuationPassthrough(t *testing.T) {
	t.Parallel()

	b := upperBackend()
	p := New(b)

	got, err := p.Phonemize(context.Background(), Request{Text: "Hello, world!"})
	if err != nil {
		t.Fatalf("Phonemize: %v", err)
	}
	if want := "HELLO, WORLD!"; got != want {
		t.Errorf("Phonemize = %q, want %q", got, want)
	}

	// Punctuation segments must never reach the backend.
	calls := b.Calls()
	if len(calls) != 2 {
		t.Fatalf("backend got %d calls, want 2: %#v", len(calls), calls)
	}
	seen := map[string]bool{}
	for _, c := range calls {
		seen[c.Text] = true
		if strings.ContainsAny(c.Text, Punctuation) {
			t.Errorf("backend received punctuation in %q", c.Text)
		}
	}
	if !seen["Hello"] || !seen["world"] {
		t.Errorf("backend calls = %#v, want segments \"Hello\" and \"world\"", calls)
	}
}

func TestPhonemize_OrderIndependentOfCompletion(t *testing.T) {
	t.Parallel()

	// The first segment finishes last; output order must still follow input
	// order.
	delays := map[string]time.Duration{
		"aa bb": 30 * time.Millisecond,
		"cc dd": 15 * time.Millisecond,
		"ee ff": 0,
	}
	b := &mock.Backend{
		ConvertFunc: func(_ context.Context, text string, _ g2p.Dialect) (string, error) {
			time.Sleep(delays[text])
			return strings.ToUpper(text), nil
		},
	}
	p := New(b, WithConcurrency(4))

	got, err := p.Phonemize(context.Background(), Request{Text: "aa bb, cc dd, ee ff!"})
	if err != nil {
		t.Fatalf("Phonemize: %v", err)
	}
	if want := "AA BB, CC DD, EE FF!"; got != want {
		t.Errorf("Phonemize = %q, want %q", got, want)
	}
}

func TestPhonemize_BackendErrorFailsWholeCall(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("backend exploded")
	b := &mock.Backend{ConvertErr: sentinel}
	p := New(b)

	got, err := p.Phonemize(context.Background(), Request{Text: "Hello, world!"})
	if err == nil {
		t.Fatal("expected error from failing backend")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error %v does not wrap the backend error", err)
	}
	if got != "" {
		t.Errorf("got partial output %q, want empty", got)
	}
}

func TestPhonemize_DialectFallback(t *testing.T) {
	t.Parallel()

	b := &mock.Backend{}
	p := New(b)

	res, err := p.PhonemizeResult(context.Background(), Request{
		Text:    "hello",
		Dialect: g2p.Dialect("martian"),
	})
	if err != nil {
		t.Fatalf("PhonemizeResult: %v", err)
	}
	if res.Dialect != g2p.DefaultDialect {
		t.Errorf("dialect = %q, want %q", res.Dialect, g2p.DefaultDialect)
	}
	calls := b.Calls()
	if len(calls) != 1 || calls[0].Dialect != g2p.DefaultDialect {
		t.Errorf("backend calls = %#v, want one call with the default dialect", calls)
	}
}

func TestPhonemize_SkipNormalize(t *testing.T) {
	t.Parallel()

	normalized, err := New(upperBackend()).Phonemize(context.Background(), Request{Text: "Dr. Smith"})
	if err != nil {
		t.Fatalf("Phonemize: %v", err)
	}
	if want := "DOCTOR SMITH"; normalized != want {
		t.Errorf("normalized = %q, want %q", normalized, want)
	}

	raw, err := New(upperBackend()).Phonemize(context.Background(), Request{Text: "Dr. Smith", SkipNormalize: true})
	if err != nil {
		t.Fatalf("Phonemize: %v", err)
	}
	if want := "DR. SMITH"; raw != want {
		t.Errorf("raw = %q, want %q", raw, want)
	}
}

func TestPhonemizeResult_SegmentCounts(t *testing.T) {
	t.Parallel()

	p := New(upperBackend())
	res, err := p.PhonemizeResult(context.Background(), Request{Text: "Hello, world!"})
	if err != nil {
		t.Fatalf("PhonemizeResult: %v", err)
	}
	if res.Segments != 4 {
		t.Errorf("Segments = %d, want 4", res.Segments)
	}
	if res.ContentSegments != 2 {
		t.Errorf("ContentSegments = %d, want 2", res.ContentSegments)
	}
}

func TestPhonemize_EmptyInput(t *testing.T) {
	t.Parallel()

	b := &mock.Backend{}
	p := New(b)

	got, err := p.Phonemize(context.Background(), Request{Text: ""})
	if err != nil {
		t.Fatalf("Phonemize: %v", err)
	}
	if got != "" {
		t.Errorf("Phonemize = %q, want empty", got)
	}
	if calls := b.Calls(); len(calls) != 0 {
		t.Errorf("backend got %d calls for empty input", len(calls))
	}
}

func TestPhonemize_ContextCancellation(t *testing.T) {
	t.Parallel()

	b := &mock.Backend{
		ConvertFunc: func(ctx context.Context, text string, _ g2p.Dialect) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	p := New(b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Phonemize(ctx, Request{Text: "hello"}); err == nil {
		t.Error("expected error from cancelled context")
	}
}
