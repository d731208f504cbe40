package norm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ExpandNumber rewrites a matched clock time or four-digit year into its
// spoken form. Matches containing a decimal point are returned unchanged —
// they are handled later by [ExpandDecimal]. The function is total: a match
// that turns out not to parse as a number comes back unchanged.
//
// Clock times of the form H:MM (hour 1–12, minute 0–59):
//
//	2:00 → "2 o'clock"
//	2:05 → "2 oh 5"
//	2:45 → "2 45"
//
// Four-digit years split into a two-digit prefix and remainder; years below
// 1100 and years whose last three digits are below 10 stay as plain numbers:
//
//	1984  → "19 84"
//	1905  → "19 oh 5"
//	1900  → "19 hundred"
//	1990s → "19 90s"
//	1050  → "1050" (unchanged)
func ExpandNumber(match string) string {
	if strings.Contains(match, ".") {
		return match
	}

	if h, m, ok := strings.Cut(match, ":"); ok {
		hour, err := strconv.Atoi(h)
		if err != nil {
			return match
		}
		minute, err := strconv.Atoi(m)
		if err != nil {
			return match
		}
		switch {
		case minute == 0:
			return fmt.Sprintf("%d o'clock", hour)
		case minute < 10:
			return fmt.Sprintf("%d oh %d", hour, minute)
		default:
			return fmt.Sprintf("%d %d", hour, minute)
		}
	}

	if len(match) < 4 {
		return match
	}
	year, err := strconv.Atoi(match[:4])
	if err != nil {
		return match
	}
	if year < 1100 || year%1000 < 10 {
		return match
	}

	prefix := match[:2]
	remainder, err := strconv.Atoi(match[2:4])
	if err != nil {
		return match
	}
	suffix := ""
	if strings.HasSuffix(match, "s") {
		suffix = "s"
	}

	if rem := year % 1000; rem >= 100 && rem <= 999 {
		if remainder == 0 {
			return prefix + " hundred" + suffix
		}
		if remainder < 10 {
			return fmt.Sprintf("%s oh %d%s", prefix, remainder, suffix)
		}
	}
	return fmt.Sprintf("%s %d%s", prefix, remainder, suffix)
}

// ExpandCurrency rewrites a matched currency amount into its spoken form.
// The leading symbol selects the unit word ($ → dollar, £ → pound).
//
//	$1      → "1 dollar"
//	$5      → "5 dollars"
//	$5.25   → "5 dollars and 25 cents"
//	£1.01   → "1 pound and 1 penny"
//	$5 million → "5 million dollars"
//
// Amounts with a fractional part speak the minor unit (cent/cents for
// dollars, penny/pence for pounds), with the fraction right-padded to two
// digits so "$5.2" reads as 20 cents. Non-numeric remainders (magnitude
// words) simply pluralise the unit. Total over arbitrary matched text.
func ExpandCurrency(match string) string {
	if match == "" {
		return match
	}
	sym, size := utf8.DecodeRuneInString(match)
	unit := "dollar"
	if sym == '£' {
		unit = "pound"
	}
	amount := match[size:]

	// Magnitude-word amounts ("5 million") are not plain numbers; speak the
	// remainder followed by the pluralised unit.
	if _, err := strconv.ParseFloat(amount, 64); err != nil {
		return amount + " " + unit + "s"
	}

	whole, frac, hasDot := strings.Cut(amount, ".")
	if !hasDot {
		if amount == "1" {
			return amount + " " + unit
		}
		return amount + " " + unit + "s"
	}

	for len(frac) < 2 {
		frac += "0"
	}
	minor, err := strconv.Atoi(frac)
	if err != nil {
		return match
	}

	var coins string
	if sym == '£' {
		coins = "pence"
		if minor == 1 {
			coins = "penny"
		}
	} else {
		coins = "cents"
		if minor == 1 {
			coins = "cent"
		}
	}

	unitSuffix := "s"
	if whole == "1" {
		unitSuffix = ""
	}
	return fmt.Sprintf("%s %s%s and %d %s", whole, unit, unitSuffix, minor, coins)
}

// ExpandDecimal rewrites a matched decimal number so every fractional digit
// is spoken individually: "3.14" → "3 point 1 4". A match without a decimal
// point is returned unchanged.
func ExpandDecimal(match string) string {
	whole, frac, ok := strings.Cut(match, ".")
	if !ok {
		return match
	}
	var b strings.Builder
	b.WriteString(whole)
	b.WriteString(" point")
	for _, d := range frac {
		b.WriteByte(' ')
		b.WriteRune(d)
	}
	return b.String()
}
