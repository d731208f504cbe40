// Package voice handles voice selectors and the voice style-data registry.
//
// A voice selector has the form "<region><gender>_<name>", e.g. "am_michael"
// (American male, "michael") or "bf_emma" (British female, "emma"). The
// phonemization core only ever consumes the first byte — the dialect code —
// but the full parse is useful for logging and for the style registry keys.
//
// The [Registry] is the guarded, lazily-initialized cache for voice style
// data that the downstream synthesis stage consumes. It guarantees at most
// one outstanding fetch per voice key: the first caller triggers the fetch,
// concurrent callers for the same key await that same fetch instead of
// duplicating it, and completed fetches are cached until [Registry.Close].
package voice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

// Gender is the gender marker carried in a voice selector.
type Gender string

const (
	Male    Gender = "male"
	Female  Gender = "female"
	Unknown Gender = "unknown"
)

// Voice is a parsed voice selector.
type Voice struct {
	// ID is the original selector, e.g. "am_michael".
	ID string

	// Dialect is derived from the selector's first byte. See
	// [g2p.DialectForVoice].
	Dialect g2p.Dialect

	// Gender is derived from the selector's second byte ('m' or 'f').
	Gender Gender

	// Name is the part after the underscore.
	Name string
}

// ParseID parses a voice selector of the form "<region><gender>_<name>".
//
// The dialect falls back to [g2p.DefaultDialect] for unrecognised region
// codes rather than failing; only a structurally invalid selector (empty, or
// missing the underscore) is an error.
func ParseID(id string) (Voice, error) {
	if id == "" {
		return Voice{}, errors.New("voice: selector must not be empty")
	}
	prefix, name, ok := strings.Cut(id, "_")
	if !ok || name == "" {
		return Voice{}, fmt.Errorf("voice: selector %q: want \"<region><gender>_<name>\"", id)
	}

	gender := Unknown
	if len(prefix) >= 2 {
		switch prefix[1] {
		case 'm':
			gender = Male
		case 'f':
			gender = Female
		}
	}

	return Voice{
		ID:      id,
		Dialect: g2p.DialectForVoice(id),
		Gender:  gender,
		Name:    name,
	}, nil
}
