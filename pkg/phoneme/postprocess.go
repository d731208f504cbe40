package phoneme

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

// substitution is one step of the phoneme post-processing table.
type substitution struct {
	name  string
	apply func(string) string
}

// literal builds a substitution replacing every occurrence of old with new.
func literal(name, old, new string) substitution {
	return substitution{name: name, apply: func(s string) string {
		return strings.ReplaceAll(s, old, new)
	}}
}

// lookaround builds a substitution from a regexp2 pattern (used where the
// rule needs lookbehind/lookahead). Falls back to the unchanged input in the
// impossible case of an engine error, keeping post-processing total.
func lookaround(name, pattern, replacement string) substitution {
	re := regexp2.MustCompile(pattern, regexp2.None)
	return substitution{name: name, apply: func(s string) string {
		out, err := re.Replace(s, replacement, -1, -1)
		if err != nil {
			return s
		}
		return out
	}}
}

// postTable is the fixed, ordered substitution table applied to every joined
// phoneme string. Order matters: the r → ɹ fold runs before the rules that
// look for ɹ in their context.
var postTable = []substitution{
	// espeak mispronounces the downstream synthesis model's name; pin both
	// dialect renderings.
	literal("name fix (us)", "kəkˈoːɹoʊ", "kˈoʊkəɹoʊ"),
	literal("name fix (gb)", "kəkˈɔːɹəʊ", "kˈəʊkəɹəʊ"),

	// Symbol folds into the synthesis model's phoneme inventory.
	literal("palatalized j", "ʲ", "j"),
	literal("r symbol", "r", "ɹ"),
	literal("x to k", "x", "k"),
	literal("lateral", "ɬ", "l"),

	// "hundred" needs a word boundary when glued to a preceding vowel, ɹ, or
	// length mark ("19 hundred" arrives as one phoneme run).
	lookaround("hundred boundary", `(?<=[a-zɹː])(?=hˈʌndɹɪd)`, " "),

	// A linking z before punctuation or end of string loses its space.
	lookaround("trailing z", ` z(?=[;:,.!?¡¿—…"«»“” ]|$)`, "z"),
}

// dialectTable holds the additional substitutions applied per dialect, as
// explicit data rather than inline branching. Only American English flaps
// the "ninety" t ("nˈaɪnti" → "nˈaɪndi") — and only when no length mark
// follows, which would indicate a different vowel.
var dialectTable = map[g2p.Dialect][]substitution{
	g2p.American: {
		lookaround("ninety flap", `(?<=nˈaɪn)ti(?!ː)`, "di"),
	},
	g2p.British: nil,
}

// postProcess runs the fixed substitution table, then the dialect-specific
// rules, and trims the result. It is total and stateless.
func postProcess(phonemes string, dialect g2p.Dialect) string {
	for _, sub := range postTable {
		phonemes = sub.apply(phonemes)
	}
	for _, sub := range dialectTable[dialect] {
		phonemes = sub.apply(phonemes)
	}
	return strings.TrimSpace(phonemes)
}
