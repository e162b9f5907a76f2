package declaration

import (
	"fmt"

	"github.com/shopspring/decimal"

	"comex/internal/allocation"
	"comex/internal/domain"
	"comex/internal/validator"
)

// Validator checks the declaration fields, the addition/item linkage and levy allocation.
type Validator struct {
	rules *validator.RuleSet[*Record]
}

// NewValidator builds the rule set. ncm may be nil.
func NewValidator(tol validator.Tolerances, ncm *validator.NCMLookup) *Validator {
	return &Validator{rules: validator.NewRuleSet(
		validator.Rule[*Record]{Key: "structure.sections", Pass: validator.PassStructural, Check: checkStructure},
		validator.Rule[*Record]{Key: "header.fields", Pass: validator.PassSection, Check: checkHeader},
		validator.Rule[*Record]{Key: "header.additions", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			CheckAdditions(c, r.Header.Additions, ncm)
		}},
		validator.Rule[*Record]{Key: "items.fields", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			CheckItems(c, r.Items, r.Header.Additions)
		}},
		validator.Rule[*Record]{Key: "consistency.addition_values", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			CheckAdditionValues(c, r.Header.Additions, r.Items, tol.TaxAllocation)
		}},
		validator.Rule[*Record]{Key: "consistency.levy_totals", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			CheckLevyTotals(c, r.Header.LevyTotals(), r.Header.Additions, tol.TaxAllocation)
		}},
		validator.Rule[*Record]{Key: "consistency.allocation", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			CheckAllocation(c, r.Header.Additions, r.TaxBreakdown, tol.TaxAllocation)
		}},
	)}
}

// Validate runs the structural, per-section and cross-section passes.
func (v *Validator) Validate(rec *Record) domain.ValidationResult {
	return v.rules.Run(rec)
}

func checkStructure(r *Record, c *validator.Collector) {
	if r.Header == nil {
		c.Error("header", domain.CodeMissingHeader, "declaration header is missing")
	}
	if len(r.Items) == 0 {
		c.Error("items", domain.CodeMissingItems, "declaration has no items")
	}
}

func checkHeader(r *Record, c *validator.Collector) {
	h := r.Header
	validator.DINumber(c, "di_number", h.DINumber, true)
	validator.Date(c, "registration_date", h.RegistrationDate, true)
	validator.CNPJ(c, "importer_cnpj", h.ImporterCNPJ, true)
	validator.Recommended(c, "importer_name", h.ImporterName, "fill in the importer name from the declaration")
	validator.Recommended(c, "customs_unit", h.CustomsUnit, "fill in the clearance customs unit")
	validator.NonNegative(c, "exchange_rate", h.ExchangeRate)
	for _, l := range h.LevyTotals().Each() {
		validator.NonNegative(c, l.Name+"_total", l.Amount)
	}
}

// CheckAdditions validates addition fields and numbering.
func CheckAdditions(c *validator.Collector, additions []Addition, ncm *validator.NCMLookup) {
	if len(additions) == 0 {
		c.Error("additions", domain.CodeMissingRequiredField, "no additions were extracted")
		return
	}
	numbers := make([]int, len(additions))
	for i, a := range additions {
		numbers[i] = a.Number
		prefix := fmt.Sprintf("additions[%d]", i)
		validator.NCM(c, prefix+".ncm", a.NCM, true, ncm)
		validator.Positive(c, prefix+".value", a.Value)
		for _, l := range a.Levies().Each() {
			validator.NonNegative(c, prefix+"."+l.Name, l.Amount)
		}
	}
	validator.Sequence(c, "additions[%d].number", numbers)
}

// CheckItems validates item fields and their link to an existing addition.
func CheckItems(c *validator.Collector, items []Item, additions []Addition) {
	known := make(map[int]bool, len(additions))
	for _, a := range additions {
		known[a.Number] = true
	}
	lines := make([]int, len(items))
	for i, it := range items {
		lines[i] = it.LineNumber
		prefix := fmt.Sprintf("items[%d]", i)
		validator.Recommended(c, prefix+".description", it.Description, "copy the item description from the declaration")
		validator.Positive(c, prefix+".value", it.Value)
		if len(known) > 0 && !known[it.AdditionNumber] {
			c.Error(prefix+".addition_number", domain.CodeInvalidReference,
				"item refers to addition %d, which is not declared", it.AdditionNumber)
		}
	}
	validator.Sequence(c, "items[%d].line_number", lines)
}

// CheckAdditionValues compares each addition's value with the sum of its items.
func CheckAdditionValues(c *validator.Collector, additions []Addition, items []Item, tol decimal.Decimal) {
	sums := make(map[int]decimal.Decimal, len(additions))
	counted := make(map[int]bool, len(additions))
	for _, it := range items {
		sums[it.AdditionNumber] = sums[it.AdditionNumber].Add(it.Value)
		counted[it.AdditionNumber] = true
	}
	for i, a := range additions {
		if !counted[a.Number] {
			c.Error(fmt.Sprintf("additions[%d]", i), domain.CodeMissingItems, "addition %d has no items", a.Number)
			continue
		}
		if !validator.Within(sums[a.Number], a.Value, tol) {
			c.Error(fmt.Sprintf("consistency.value.additions[%d]", i), domain.CodeItemTotalMismatch,
				"addition %d value %s, items add up to %s", a.Number, a.Value.StringFixed(2), sums[a.Number].StringFixed(2))
		}
	}
}

// CheckLevyTotals compares declared levy totals with the sum over additions. Zero totals are treated as not stated.
func CheckLevyTotals(c *validator.Collector, totals allocation.Levies, additions []Addition, tol decimal.Decimal) {
	var sum allocation.Levies
	for _, a := range additions {
		sum = sum.Add(a.Levies())
	}
	summed := sum.Each()
	for i, want := range totals.Each() {
		if want.Amount.IsZero() {
			continue
		}
		if !validator.Within(want.Amount, summed[i].Amount, tol) {
			c.Error("consistency.levies."+want.Name+"_total", domain.CodeTaxTotalMismatch,
				"%s total %s, additions add up to %s", want.Name, want.Amount.StringFixed(2), summed[i].Amount.StringFixed(2))
		}
	}
}

// CheckAllocation verifies that per-item levies add back up to each addition's aggregate.
func CheckAllocation(c *validator.Collector, additions []Addition, rows []allocation.Row, tol decimal.Decimal) {
	adds := make([]allocation.Addition, len(additions))
	for i, a := range additions {
		adds[i] = allocation.Addition{Number: a.Number, Value: a.Value, Levies: a.Levies()}
	}
	for _, m := range allocation.Verify(adds, rows, tol) {
		c.Error(fmt.Sprintf("consistency.allocation.addition_%d.%s", m.AdditionNumber, m.Levy), domain.CodeTaxAllocationMismatch,
			"addition %d %s is %s, item allocations add up to %s", m.AdditionNumber, m.Levy, m.Expected.StringFixed(2), m.Actual.StringFixed(2))
	}
}
