package voice

import (
	"testing"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want Voice
	}{
		{"am_michael", Voice{ID: "am_michael", Dialect: g2p.American, Gender: Male, Name: "michael"}},
		{"af_bella", Voice{ID: "af_bella", Dialect: g2p.American, Gender: Female, Name: "bella"}},
		{"bf_emma", Voice{ID: "bf_emma", Dialect: g2p.British, Gender: Female, Name: "emma"}},
		{"bm_george", Voice{ID: "bm_george", Dialect: g2p.British, Gender: Male, Name: "george"}},

		// Unknown region codes fall back to the default dialect.
		{"xm_test", Voice{ID: "xm_test", Dialect: g2p.DefaultDialect, Gender: Male, Name: "test"}},

		// A one-byte prefix carries no gender marker.
		{"a_b", Voice{ID: "a_b", Dialect: g2p.American, Gender: Unknown, Name: "b"}},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.id)
		if err != nil {
			t.Errorf("ParseID(%q): %v", tt.id, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %#v, want %#v", tt.id, got, tt.want)
		}
	}
}

func TestParseID_Invalid(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "nounderscore", "am_"} {
		if _, err := ParseID(id); err == nil {
			t.Errorf("ParseID(%q): expected error", id)
		}
	}
}
