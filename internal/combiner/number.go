package combiner

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Scale is the fixed number of decimal places every normalized amount is rounded to.
const Scale = 4

// scientific matches plain exponent notation such as 1e-05 or 1.5E+3.
var scientific = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?[eE][+-]?[0-9]+$`)

// ParseNumber converts a human-formatted amount ("R$ 1.234,56", "USD 1,234.56", "(12,5)") to a decimal.
// Currency symbols, letters and whitespace are dropped. With both separators present the last one is the
// decimal mark; a lone comma is a decimal mark; repeated identical separators are thousands marks.
// Exponent notation is accepted only on its own; an exponent mixed into a formatted amount is rejected.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if scientific.MatchString(s) {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d.Round(Scale), true
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case (r == 'e' || r == 'E') && isExponent(runes, i):
			return decimal.Zero, false
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case r == '-':
			negative = true
		case unicode.IsSpace(r), unicode.IsLetter(r), unicode.Is(unicode.Sc, r), r == '\'', r == '%':
		default:
			return decimal.Zero, false
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero, false
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(cleaned, ".") > 1 {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}
	if strings.Count(cleaned, ".") > 1 || cleaned == "." {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d.Round(Scale), true
}

// isExponent reports whether the e at i sits between a digit and an exponent.
func isExponent(runes []rune, i int) bool {
	if i == 0 || i+1 >= len(runes) || runes[i-1] < '0' || runes[i-1] > '9' {
		return false
	}
	next := runes[i+1]
	if (next == '+' || next == '-') && i+2 < len(runes) {
		next = runes[i+2]
	}
	return next >= '0' && next <= '9'
}
