package validator

import (
	"strings"

	"github.com/shopspring/decimal"

	"comex/internal/domain"
)

// Field checks append to a Collector. Empty optional values are skipped; format checks only run
// on non-empty input so a missing value is reported once, by Required.

// Required records MISSING_REQUIRED_FIELD when value is blank. It reports whether the value is present.
func Required(c *Collector, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.Error(field, domain.CodeMissingRequiredField, "%s is required", field)
		return false
	}
	return true
}

// Recommended records a warning when an optional descriptive value is blank.
func Recommended(c *Collector, field, value, suggestion string) {
	if strings.TrimSpace(value) == "" {
		c.Warn(field, suggestion, "%s is empty", field)
	}
}

// CNPJ validates a company tax ID.
func CNPJ(c *Collector, field, value string, required bool) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidCNPJ(value) {
		c.Error(field, domain.CodeInvalidCNPJ, "%s %q is not a valid CNPJ", field, value)
	}
}

// TaxID validates a CNPJ or CPF.
func TaxID(c *Collector, field, value string, required bool) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidTaxID(value) {
		c.Error(field, domain.CodeInvalidCNPJ, "%s %q is not a valid CNPJ/CPF", field, value)
	}
}

// Date validates a DD/MM/YYYY date.
func Date(c *Collector, field, value string, required bool) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidDate(value) {
		c.Error(field, domain.CodeInvalidDate, "%s %q is not a valid DD/MM/YYYY date", field, value)
	}
}

// NCM validates a tariff code format and, when the lookup table is loaded, its existence.
func NCM(c *Collector, field, value string, required bool, lookup *NCMLookup) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidNCM(value) {
		c.Error(field, domain.CodeInvalidNCM, "%s %q must have 6 to 8 digits", field, value)
		return
	}
	if lookup != nil && lookup.Len() > 0 && !lookup.Exists(value) {
		c.Warn(field, "check the NCM against the current tariff table", "UNKNOWN_NCM: %s %q not found in tariff table", field, value)
	}
}

// DINumber validates a declaration number.
func DINumber(c *Collector, field, value string, required bool) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidDINumber(value) {
		c.Error(field, domain.CodeInvalidDINumber, "%s %q does not match YY/NNNNNNN-D", field, value)
	}
}

// BIC validates a SWIFT code.
func BIC(c *Collector, field, value string, required bool) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidBIC(value) {
		c.Error(field, domain.CodeInvalidSwift, "%s %q is not a valid SWIFT/BIC code", field, value)
	}
}

// Currency validates an ISO 4217 code.
func Currency(c *Collector, field, value string, required bool) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidCurrency(value) {
		c.Error(field, domain.CodeInvalidCurrency, "%s %q is not a known ISO 4217 currency", field, value)
	}
}

// Incoterm warns on an unknown Incoterms rule.
func Incoterm(c *Collector, field, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if !IsValidIncoterm(value) {
		c.Warn(field, "use an Incoterms 2020 rule code such as FOB or CIF", "%s %q is not a known incoterm", field, value)
	}
}

// Container validates an ISO 6346 container number.
func Container(c *Collector, field, value string, required bool) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidContainer(value) {
		c.Error(field, domain.CodeInvalidContainer, "%s %q is not a valid ISO 6346 container number", field, value)
	}
}

// AccessKey validates an NF-e access key.
func AccessKey(c *Collector, field, value string, required bool) {
	if !present(c, field, value, required) {
		return
	}
	if !IsValidAccessKey(value) {
		c.Error(field, domain.CodeInvalidAccessKey, "%s is not a valid 44-digit access key", field)
	}
}

// NonNegative records INVALID_NUMBER for negative amounts.
func NonNegative(c *Collector, field string, v decimal.Decimal) {
	if v.IsNegative() {
		c.Error(field, domain.CodeInvalidNumber, "%s must not be negative (got %s)", field, v.String())
	}
}

// Positive records INVALID_NUMBER when v <= 0.
func Positive(c *Collector, field string, v decimal.Decimal) {
	if !v.IsPositive() {
		c.Error(field, domain.CodeInvalidNumber, "%s must be greater than zero (got %s)", field, v.String())
	}
}

// ZeroWarning flags values that are suspiciously zero.
func ZeroWarning(c *Collector, field string, v decimal.Decimal) {
	if v.IsZero() {
		c.Warn(field, "confirm the value on the source document", "%s is zero", field)
	}
}

// Range records INVALID_NUMBER when v falls outside [minimum, maximum].
func Range(c *Collector, field string, v, minimum, maximum decimal.Decimal, allowDecimal bool) {
	if !InRange(v, minimum, maximum, allowDecimal) {
		c.Error(field, domain.CodeInvalidNumber, "%s %s outside [%s, %s]", field, v.String(), minimum.String(), maximum.String())
	}
}

// Sequence requires line numbers to be unique and strictly increasing.
func Sequence(c *Collector, fieldFmt string, numbers []int) {
	seen := make(map[int]bool, len(numbers))
	prev := 0
	for i, n := range numbers {
		field := Indexed(fieldFmt, i)
		switch {
		case seen[n]:
			c.Error(field, domain.CodeInvalidSequence, "line number %d is duplicated", n)
		case i > 0 && n <= prev:
			c.Error(field, domain.CodeInvalidSequence, "line number %d does not follow %d", n, prev)
		}
		seen[n] = true
		prev = n
	}
}

// Duplicates warns on every repeated non-empty value after its first occurrence.
func Duplicates(c *Collector, fieldFmt, what string, values []string) {
	first := make(map[string]int, len(values))
	for i, v := range values {
		key := strings.ToUpper(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if j, ok := first[key]; ok {
			c.Warn(Indexed(fieldFmt, i), "confirm whether the repeated "+what+" is intentional",
				"%s %q repeats entry %d", what, v, j)
			continue
		}
		first[key] = i
	}
}

func present(c *Collector, field, value string, required bool) bool {
	if strings.TrimSpace(value) != "" {
		return true
	}
	if required {
		c.Error(field, domain.CodeMissingRequiredField, "%s is required", field)
	}
	return false
}
