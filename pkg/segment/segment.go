// Package segment splits normalized text into an ordered sequence of
// punctuation-run and content segments, losslessly: concatenating the
// segment texts in order always reproduces the input byte for byte.
//
// A punctuation run is one or more repetitions of (optional surrounding
// whitespace + one or more punctuation characters), so ", — " is a single
// punctuation segment carrying its whitespace with it. Content segments are
// the spans between runs. Zero-length segments are never emitted.
package segment

import "regexp"

// Segment is one contiguous span of the input.
type Segment struct {
	// IsPunctuation marks a punctuation-run segment. Punctuation segments
	// pass through the phonemize pipeline verbatim and are never handed to a
	// grapheme-to-phoneme backend.
	IsPunctuation bool

	// Text is the exact span of the input, including any whitespace that
	// belongs to a punctuation run.
	Text string
}

// Splitter splits text on a fixed punctuation set. A Splitter is read-only
// after construction and safe for concurrent use.
type Splitter struct {
	re *regexp.Regexp
}

// NewSplitter compiles a Splitter for the given punctuation characters.
// Returns an error when punctuation is empty.
func NewSplitter(punctuation string) (*Splitter, error) {
	// The run pattern always consumes at least one punctuation character, so
	// matching can never loop on a zero-length match.
	re, err := regexp.Compile(`(?:\s*[` + regexp.QuoteMeta(punctuation) + `]+\s*)+`)
	if err != nil {
		return nil, err
	}
	return &Splitter{re: re}, nil
}

// Split segments text into alternating content and punctuation-run segments.
// The concatenation of the returned segment texts equals text exactly.
// Empty input yields a nil slice.
func (s *Splitter) Split(text string) []Segment {
	var segs []Segment
	last := 0
	for _, loc := range s.re.FindAllStringIndex(text, -1) {
		if loc[1] == loc[0] {
			continue
		}
		if loc[0] > last {
			segs = append(segs, Segment{Text: text[last:loc[0]]})
		}
		segs = append(segs, Segment{IsPunctuation: true, Text: text[loc[0]:loc[1]]})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	return segs
}
