package norm

import "testing"

func TestExpandNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		// Clock times.
		{"2:00", "2 o'clock"},
		{"2:05", "2 oh 5"},
		{"2:45", "2 45"},
		{"12:59", "12 59"},

		// Years.
		{"1984", "19 84"},
		{"1905", "19 oh 5"},
		{"1900", "19 hundred"},
		{"1990s", "19 90s"},
		{"1100", "11 hundred"},
		{"2024", "20 24"},

		// Untouched forms.
		{"1050", "1050"},
		{"2000", "2000"},
		{"3.14", "3.14"},
	}
	for _, tt := range tests {
		if got := ExpandNumber(tt.in); got != tt.want {
			t.Errorf("ExpandNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandCurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"$1", "1 dollar"},
		{"$5", "5 dollars"},
		{"£3", "3 pounds"},
		{"$5.25", "5 dollars and 25 cents"},
		{"$1.50", "1 dollar and 50 cents"},
		{"£1.01", "1 pound and 1 penny"},
		{"£2.50", "2 pounds and 50 pence"},

		// A one-digit fraction is right-padded: ".2" means 20 cents.
		{"$5.2", "5 dollars and 20 cents"},

		// Magnitude-word amounts pluralise the unit.
		{"$5 million", "5 million dollars"},
		{"£2 hundred thousand", "2 hundred thousand pounds"},
	}
	for _, tt := range tests {
		if got := ExpandCurrency(tt.in); got != tt.want {
			t.Errorf("ExpandCurrency(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"3.14", "3 point 1 4"},
		{"0.5", "0 point 5"},
		{"10.01", "10 point 0 1"},
		{"42", "42"},
	}
	for _, tt := range tests {
		if got := ExpandDecimal(tt.in); got != tt.want {
			t.Errorf("ExpandDecimal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
