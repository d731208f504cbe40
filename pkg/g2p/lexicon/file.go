package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// FromFile creates a Backend from a dictionary file. Each non-empty line
// holds one entry: the headword, whitespace, then the phoneme string for the
// rest of the line. Lines starting with '#' are comments.
//
//	# word    phonemes
//	hello     həlˈoʊ
//	world     wˈɜːld
func FromFile(path string, opts ...Option) (*Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open %q: %w", path, err)
	}
	defer f.Close()

	b, err := FromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("lexicon: parse %q: %w", path, err)
	}
	return b, nil
}

// FromReader creates a Backend from dictionary entries read from r. Useful
// in tests where dictionaries are string literals.
func FromReader(r io.Reader, opts ...Option) (*Backend, error) {
	pronunciations := make(map[string]string)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, phonemes, ok := strings.Cut(text, " ")
		if !ok {
			word, phonemes, ok = strings.Cut(text, "\t")
		}
		phonemes = strings.TrimSpace(phonemes)
		if !ok || phonemes == "" {
			return nil, fmt.Errorf("lexicon: line %d: want \"word phonemes\", got %q", line, text)
		}
		pronunciations[word] = phonemes
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lexicon: read dictionary: %w", err)
	}
	return New(pronunciations, opts...), nil
}
