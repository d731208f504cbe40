// Package norm implements the text-normalization stage of the Phonoglyph
// pipeline: an ordered sequence of rewrite rules that converts arbitrary
// input text into a form the grapheme-to-phoneme backends pronounce well.
//
// The rules run in one fixed total order and are non-commutative — later
// rules observe the output of earlier ones. Parentheses are converted to
// guillemets only after original guillemets have been folded into straight
// double quotes, abbreviation expansion runs before numeric expansion so
// "Dr." never collides with decimal points, and the possessive rules run
// after currency expansion so "dollar's" is left alone. The pipeline is kept
// as an explicit []rewrite table so the ordering is visible and each step is
// independently testable.
//
// [Normalize] is total: it never panics and never returns an error,
// whatever the input. Rules backed by [regexp2] (needed for the lookaround
// patterns RE2 cannot express) fall back to returning their input unchanged
// in the impossible case of an engine error.
package norm

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// rewrite is one step of the normalization pipeline.
type rewrite struct {
	name  string
	apply func(string) string
}

// replacer builds a rewrite from sequential literal substitutions. Pairs are
// applied one after another, so the output of an earlier pair is visible to a
// later one (unlike strings.NewReplacer, which is single-pass).
func replacer(name string, pairs ...string) rewrite {
	if len(pairs)%2 != 0 {
		panic("norm: replacer requires old/new pairs")
	}
	return rewrite{name: name, apply: func(s string) string {
		for i := 0; i < len(pairs); i += 2 {
			s = strings.ReplaceAll(s, pairs[i], pairs[i+1])
		}
		return s
	}}
}

// re2Sub builds a rewrite from a regexp2 pattern and a static replacement.
// regexp2 is used wherever the rule needs lookbehind or lookahead.
func re2Sub(name, pattern string, opts regexp2.RegexOptions, replacement string) rewrite {
	re := regexp2.MustCompile(pattern, opts)
	return rewrite{name: name, apply: func(s string) string {
		out, err := re.Replace(s, replacement, -1, -1)
		if err != nil {
			return s
		}
		return out
	}}
}

// re2Func builds a rewrite from a regexp2 pattern and a per-match transform.
func re2Func(name, pattern string, opts regexp2.RegexOptions, fn func(string) string) rewrite {
	re := regexp2.MustCompile(pattern, opts)
	return rewrite{name: name, apply: func(s string) string {
		out, err := re.ReplaceFunc(s, func(m regexp2.Match) string {
			return fn(m.String())
		}, -1, -1)
		if err != nil {
			return s
		}
		return out
	}}
}

// reFunc builds a rewrite from a stdlib regexp and a per-match transform,
// for the rules that need no lookaround.
func reFunc(name, pattern string, fn func(string) string) rewrite {
	re := regexp.MustCompile(pattern)
	return rewrite{name: name, apply: func(s string) string {
		return re.ReplaceAllStringFunc(s, fn)
	}}
}

// reSub builds a rewrite from a stdlib regexp and a static replacement.
func reSub(name, pattern, replacement string) rewrite {
	re := regexp.MustCompile(pattern)
	return rewrite{name: name, apply: func(s string) string {
		return re.ReplaceAllString(s, replacement)
	}}
}

// pipeline is the full rule table, in execution order.
var pipeline = []rewrite{
	// Curly single quotes become straight apostrophes; guillemets are folded
	// into straight double quotes via the curly-double intermediate; only then
	// do parentheses become guillemets, so they survive the folding above.
	replacer("quotes",
		"‘", "'", // ‘
		"’", "'", // ’
		"«", "“", // « → “
		"»", "”", // » → ”
		"“", `"`, // “
		"”", `"`, // ”
		"(", "«",
		")", "»",
	),

	// CJK-style punctuation becomes its ASCII equivalent plus a trailing
	// space, which the whitespace rules below de-duplicate.
	replacer("cjk punctuation",
		"、", ", ", // 、
		"。", ". ", // 。
		"！", "! ", // ！
		"，", ", ", // ，
		"：", ": ", // ：
		"；", "; ", // ；
		"？", "? ", // ？
	),

	// Any whitespace other than plain spaces and newlines becomes a space,
	// space runs collapse, and whitespace-only lines are emptied.
	reSub("exotic whitespace", `[^\S \n]`, " "),
	reSub("space runs", `  +`, " "),
	re2Sub("blank lines", `(?<=\n) +(?=\n)`, regexp2.None, ""),

	// Title abbreviations. The all-caps variants only expand before a
	// capitalised word so ordinary acronym prose is untouched; "etc." keeps
	// its period only when a capitalised word follows (sentence boundary).
	re2Sub("doctor", `\bD[Rr]\.(?= [A-Z])`, regexp2.None, "Doctor"),
	re2Sub("mister", `\b(?:Mr\.|MR\.(?= [A-Z]))`, regexp2.None, "Mister"),
	re2Sub("miss", `\b(?:Ms\.|MS\.(?= [A-Z]))`, regexp2.None, "Miss"),
	re2Sub("mrs", `\b(?:Mrs\.|MRS\.(?= [A-Z]))`, regexp2.None, "Mrs"),
	// The abbreviation matches in any case, but the lookahead stays
	// case-sensitive: only a following capitalised word keeps the period.
	re2Sub("etc", `\b[eE][tT][cC]\.(?! [A-Z])`, regexp2.None, "etc"),

	// "yeah"/"yea" and case variants become a spellable form.
	re2Sub("yeah", `\b(y)eah?\b`, regexp2.IgnoreCase, "${1}e'a"),

	// Numeric expansion: decimals are deferred (ExpandNumber returns them
	// unchanged), clock times and four-digit years are spoken here.
	re2Func("numbers",
		`\d*\.\d+|\b\d{4}s?\b|(?<!:)\b(?:[1-9]|1[0-2]):[0-5]\d\b(?!:)`,
		regexp2.None, ExpandNumber),

	// Thousands separators between digits disappear.
	re2Sub("digit commas", `(?<=\d),(?=\d)`, regexp2.None, ""),

	// Currency amounts, including magnitude-word forms like "$5 million".
	re2Func("currency",
		`[$£]\d+(?:\.\d+)?(?: hundred| thousand| (?:[bm]|tr)illion)*\b|[$£]\d+\.\d\d?\b`,
		regexp2.None, ExpandCurrency),

	// Remaining bare decimals are spelled digit by digit.
	reFunc("decimals", `\d*\.\d+`, ExpandDecimal),

	// Digit ranges read as "to"; a capital S glued to a digit is detached
	// ("1980S" was already handled by the year rule, this catches the rest).
	re2Sub("digit ranges", `(?<=\d)-(?=\d)`, regexp2.None, " to "),
	re2Sub("digit plural S", `(?<=\d)S`, regexp2.None, " S"),

	// Possessives after non-vowel consonants are uppercased so the backend
	// pronounces them as a separate sibilant; "X'S" at a word end reverts to
	// lowercase.
	re2Sub("possessive", `(?<=[BCDFGHJ-NP-TV-Z])'?s\b`, regexp2.None, "'S"),
	re2Sub("x possessive", `(?<=X')S\b`, regexp2.None, "s"),

	// Acronym hyphenation: dotted letter runs before a lowercase word swap
	// dots for hyphens, and any period squeezed between two letters becomes
	// a hyphen.
	reFunc("dotted acronyms", `(?:[A-Za-z]\.){2,} [a-z]`, func(m string) string {
		return strings.ReplaceAll(m, ".", "-")
	}),
	re2Sub("letter periods", `(?<=[A-Z])\.(?=[A-Z])`, regexp2.IgnoreCase, "-"),
}

// Normalize rewrites text through the full rule pipeline and trims the
// surrounding whitespace. It is idempotent on text that is already free of
// smart quotes, CJK punctuation, abbreviations, and numeric forms.
func Normalize(text string) string {
	for _, rw := range pipeline {
		text = rw.apply(text)
	}
	return strings.TrimSpace(text)
}

// Steps returns the names of the pipeline rules in execution order. Useful
// for debugging rule-interaction issues.
func Steps() []string {
	names := make([]string, len(pipeline))
	for i, rw := range pipeline {
		names[i] = rw.name
	}
	return names
}
