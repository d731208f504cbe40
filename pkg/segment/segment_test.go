package segment

import (
	"strings"
	"testing"
)

const testPunctuation = `;:,.!?«»"`

func mustSplitter(t *testing.T) *Splitter {
	t.Helper()
	s, err := NewSplitter(testPunctuation)
	if err != nil {
		t.Fatalf("NewSplitter: %v", err)
	}
	return s
}

func TestNewSplitter_EmptyPunctuation(t *testing.T) {
	t.Parallel()

	if _, err := NewSplitter(""); err == nil {
		t.Error("expected error for empty punctuation set")
	}
}

func TestSplit_Alternation(t *testing.T) {
	t.Parallel()

	s := mustSplitter(t)
	segs := s.Split("Hello, world!")

	want := []Segment{
		{Text: "Hello"},
		{IsPunctuation: true, Text: ", "},
		{Text: "world"},
		{IsPunctuation: true, Text: "!"},
	}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d: %#v", len(segs), len(want), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Errorf("segment %d = %#v, want %#v", i, segs[i], want[i])
		}
	}
}

func TestSplit_PunctuationRunCarriesWhitespace(t *testing.T) {
	t.Parallel()

	s := mustSplitter(t)
	segs := s.Split(`one , « two » . three`)

	for i := 1; i < len(segs); i++ {
		if segs[i].IsPunctuation == segs[i-1].IsPunctuation {
			t.Errorf("segments %d and %d have the same kind: %#v", i-1, i, segs)
		}
	}
	// The run between "one" and "two" is a single punctuation segment.
	if got, want := segs[1].Text, " , « "; got != want {
		t.Errorf("punctuation run = %q, want %q", got, want)
	}
}

func TestSplit_EdgeShapes(t *testing.T) {
	t.Parallel()

	s := mustSplitter(t)
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{"empty", "", nil},
		{"content only", "hello world", []Segment{{Text: "hello world"}}},
		{"punctuation only", "!!!", []Segment{{IsPunctuation: true, Text: "!!!"}}},
		{"leading punctuation", "...wait", []Segment{
			{IsPunctuation: true, Text: "..."},
			{Text: "wait"},
		}},
		{"trailing punctuation", "wait...", []Segment{
			{Text: "wait"},
			{IsPunctuation: true, Text: "..."},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.Split(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Split(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Split(%q)[%d] = %#v, want %#v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Concatenating the segment texts must reproduce the input byte for byte, and
// no segment may be empty.
func TestSplit_Lossless(t *testing.T) {
	t.Parallel()

	s := mustSplitter(t)
	inputs := []string{
		"",
		"plain text with no punctuation",
		"Hello, world! How are you?",
		"  leading and trailing  ",
		"...only punctuation...",
		`mixed « runs » , with ; everything : in ! one ? line .`,
		"unicode £5 and «guillemets» and … nothing from the set\n across\nlines",
		",a,b,,c,",
	}
	for _, in := range inputs {
		segs := s.Split(in)
		var b strings.Builder
		for i, seg := range segs {
			if seg.Text == "" {
				t.Errorf("Split(%q): segment %d is empty", in, i)
			}
			b.WriteString(seg.Text)
		}
		if got := b.String(); got != in {
			t.Errorf("Split(%q) reassembles to %q", in, got)
		}
	}
}
