// Package numbering provides the ordinal and roman-numeral helpers shared by
// the markup and layout renderers.
package numbering

import "strconv"

// romanPairs lists value/symbol pairs in descending order, including the
// subtractive forms (CM, CD, XC, XL, IX, IV).
var romanPairs = []struct {
	value  int
	symbol string
}{
	{1000, "M"},
	{900, "CM"},
	{500, "D"},
	{400, "CD"},
	{100, "C"},
	{90, "XC"},
	{50, "L"},
	{40, "XL"},
	{10, "X"},
	{9, "IX"},
	{5, "V"},
	{4, "IV"},
	{1, "I"},
}

// OrdinalSuffix returns the English ordinal suffix for n ("st", "nd", "rd", "th").
// Values ending in 11, 12 or 13 always take "th".
func OrdinalSuffix(n int) string {
	switch n % 100 {
	case 11, 12, 13:
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// Ordinal returns n followed by its suffix, e.g. "21st".
func Ordinal(n int) string {
	return strconv.Itoa(n) + OrdinalSuffix(n)
}

// ToRoman converts n to an upper-case roman numeral by greedily subtracting
// the largest applicable value. Returns "" for n <= 0.
func ToRoman(n int) string {
	if n <= 0 {
		return ""
	}

	buf := make([]byte, 0, 16)
	for _, p := range romanPairs {
		for n >= p.value {
			buf = append(buf, p.symbol...)
			n -= p.value
		}
	}
	return string(buf)
}
