// Package g2p defines the grapheme-to-phoneme backend contract shared by all
// Phonoglyph backend implementations, together with the [Dialect] enum that
// selects the pronunciation variant.
//
// A backend converts one content segment of already-normalized text into a
// phoneme string. Backends perform no normalization, no punctuation handling,
// and no post-processing — those stages belong to the caller. Backends must be
// safe for concurrent use: the orchestrator may dispatch several segments of
// the same utterance in parallel.
package g2p

import "context"

// Dialect selects the pronunciation variant used for grapheme-to-phoneme
// conversion and for dialect-conditional phoneme post-processing.
type Dialect string

const (
	// American is General American English. It is also the fallback for
	// unrecognised voice selectors — see [DialectForVoice].
	American Dialect = "american"

	// British is Received Pronunciation British English.
	British Dialect = "british"
)

// DefaultDialect is the dialect used when a voice selector carries no
// recognisable dialect prefix.
const DefaultDialect = American

// IsValid reports whether d is a recognised dialect.
func (d Dialect) IsValid() bool {
	return d == American || d == British
}

// dialectInfo holds the per-dialect backend parameters. Kept as explicit data
// rather than switch statements so adding a dialect touches one table.
type dialectInfo struct {
	// espeakVoice is the espeak-ng voice identifier for this dialect.
	espeakVoice string

	// goruutLanguage is the language name understood by the goruut phonemizer.
	goruutLanguage string
}

var dialects = map[Dialect]dialectInfo{
	American: {espeakVoice: "en-us", goruutLanguage: "English"},
	British:  {espeakVoice: "en", goruutLanguage: "EnglishBritish"},
}

// EspeakVoice returns the espeak-ng voice identifier for d ("en-us" for
// American, "en" for British). Unknown dialects map to the default dialect's
// identifier.
func (d Dialect) EspeakVoice() string {
	if info, ok := dialects[d]; ok {
		return info.espeakVoice
	}
	return dialects[DefaultDialect].espeakVoice
}

// GoruutLanguage returns the goruut language name for d. Unknown dialects map
// to the default dialect's language.
func (d Dialect) GoruutLanguage() string {
	if info, ok := dialects[d]; ok {
		return info.goruutLanguage
	}
	return dialects[DefaultDialect].goruutLanguage
}

// DialectForVoice derives the dialect from a voice selector of the form
// "<region><gender>_<name>" (e.g., "am_michael", "bf_emma"). Only the first
// byte matters: 'a' selects [American], 'b' selects [British]. Any other
// selector — including an empty string — falls back to [DefaultDialect]
// rather than failing, so callers never have to handle an invalid dialect.
func DialectForVoice(voiceID string) Dialect {
	if voiceID == "" {
		return DefaultDialect
	}
	switch voiceID[0] {
	case 'a':
		return American
	case 'b':
		return British
	}
	return DefaultDialect
}

// Backend converts a span of normalized text into a phoneme string.
//
// Convert is invoked once per content segment. It must return the phoneme
// transcription of text in the given dialect, or an error. Errors are
// propagated unchanged to the caller and abort the surrounding phonemize
// call — backends must not retry internally.
//
// Implementations must be safe for concurrent use and should honour ctx
// cancellation on any blocking work.
type Backend interface {
	Convert(ctx context.Context, text string, dialect Dialect) (string, error)
}
