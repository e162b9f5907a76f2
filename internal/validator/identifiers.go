package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	datePattern      = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	bicPattern       = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	ncmPattern       = regexp.MustCompile(`^\d{6,8}$`)
	diPattern        = regexp.MustCompile(`^\d{2}/\d{7}-\d$`)
	containerPattern = regexp.MustCompile(`^[A-Z]{3}[UJZ]\d{7}$`)
	accessKeyPattern = regexp.MustCompile(`^\d{44}$`)
)

// DateLayout is the only accepted date layout (DD/MM/YYYY).
const DateLayout = "02/01/2006"

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights1  = []int{10, 9, 8, 7, 6, 5, 4, 3, 2}
	cpfWeights2  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Known ISO 4217 currency codes seen in import operations.
var knownCurrencies = map[string]bool{
	"BRL": true, "USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "CHF": true, "CAD": true, "AUD": true, "ARS": true,
	"CLP": true, "MXN": true, "UYU": true, "PYG": true, "COP": true,
	"PEN": true, "KRW": true, "INR": true, "HKD": true, "SGD": true,
	"TWD": true, "SEK": true, "NOK": true, "DKK": true, "ZAR": true,
	"NZD": true, "AED": true, "SAR": true, "THB": true, "MYR": true,
}

var knownIncoterms = map[string]bool{
	"EXW": true, "FCA": true, "FAS": true, "FOB": true, "CFR": true, "CIF": true,
	"CPT": true, "CIP": true, "DAP": true, "DPU": true, "DDP": true,
	"DAT": true, "DDU": true,
}

// ISO 6346 letter values skip multiples of 11.
var containerLetterValues = map[byte]int{
	'A': 10, 'B': 12, 'C': 13, 'D': 14, 'E': 15, 'F': 16, 'G': 17, 'H': 18, 'I': 19,
	'J': 20, 'K': 21, 'L': 23, 'M': 24, 'N': 25, 'O': 26, 'P': 27, 'Q': 28, 'R': 29,
	'S': 30, 'T': 31, 'U': 32, 'V': 34, 'W': 35, 'X': 36, 'Y': 37, 'Z': 38,
}

// StripIdentifier removes the punctuation commonly used to format identifiers.
func StripIdentifier(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '/', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func repdigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func mod11Digit(digits string, weights []int) byte {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + 11 - r)
}

func checkTaxID(s string, length int, w1, w2 []int) bool {
	digits := StripIdentifier(s)
	if len(digits) != length || !allDigits(digits) || repdigit(digits) {
		return false
	}
	if mod11Digit(digits, w1) != digits[length-2] {
		return false
	}
	return mod11Digit(digits, w2) == digits[length-1]
}

// IsValidCNPJ checks a 14-digit company tax ID with the two-pass mod-11 algorithm.
func IsValidCNPJ(s string) bool {
	return checkTaxID(s, 14, cnpjWeights1, cnpjWeights2)
}

// IsValidCPF checks an 11-digit individual tax ID with the two-pass mod-11 algorithm.
func IsValidCPF(s string) bool {
	return checkTaxID(s, 11, cpfWeights1, cpfWeights2)
}

// IsValidTaxID accepts either a CNPJ or a CPF.
func IsValidTaxID(s string) bool {
	switch len(StripIdentifier(s)) {
	case 14:
		return IsValidCNPJ(s)
	case 11:
		return IsValidCPF(s)
	default:
		return false
	}
}

// ParseDate parses a DD/MM/YYYY date, rejecting impossible calendar days.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !datePattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsValidDate reports whether s is a real calendar date in DD/MM/YYYY form.
func IsValidDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// InRange checks min <= v <= max; when allowDecimal is false v must be integral.
func InRange(v, minimum, maximum decimal.Decimal, allowDecimal bool) bool {
	if !allowDecimal && !v.IsInteger() {
		return false
	}
	return v.GreaterThanOrEqual(minimum) && v.LessThanOrEqual(maximum)
}

// IsValidBIC checks a SWIFT/BIC code: bank(4) country(2) location(2) optional branch(3).
func IsValidBIC(s string) bool {
	return bicPattern.MatchString(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "")))
}

// IsValidNCM checks a harmonized tariff code of 6 to 8 digits, dots allowed.
func IsValidNCM(s string) bool {
	return ncmPattern.MatchString(strings.ReplaceAll(strings.TrimSpace(s), ".", ""))
}

// IsValidDINumber checks the declaration number layout YY/NNNNNNN-D.
func IsValidDINumber(s string) bool {
	return diPattern.MatchString(strings.TrimSpace(s))
}

// IsValidCurrency checks an ISO 4217 code against the known list.
func IsValidCurrency(s string) bool {
	return knownCurrencies[strings.ToUpper(strings.TrimSpace(s))]
}

// IsValidIncoterm checks an Incoterms rule code.
func IsValidIncoterm(s string) bool {
	return knownIncoterms[strings.ToUpper(strings.TrimSpace(s))]
}

// NormalizeContainer uppercases a container number and drops separators.
func NormalizeContainer(s string) string {
	return strings.ToUpper(StripIdentifier(s))
}

// IsValidContainer checks an ISO 6346 container number including its check digit.
func IsValidContainer(s string) bool {
	c := NormalizeContainer(s)
	if !containerPattern.MatchString(c) {
		return false
	}
	sum := 0
	for i := 0; i < 10; i++ {
		var v int
		if i < 4 {
			v = containerLetterValues[c[i]]
		} else {
			v = int(c[i] - '0')
		}
		sum += v << i
	}
	return (sum%11)%10 == int(c[10]-'0')
}

// IsValidAccessKey checks a 44-digit NF-e access key and its mod-11 check digit.
func IsValidAccessKey(s string) bool {
	key := StripIdentifier(s)
	if !accessKeyPattern.MatchString(key) {
		return false
	}
	sum, weight := 0, 2
	for i := 42; i >= 0; i-- {
		sum += int(key[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	r := sum % 11
	dv := 0
	if r >= 2 {
		dv = 11 - r
	}
	return dv == int(key[43]-'0')
}
