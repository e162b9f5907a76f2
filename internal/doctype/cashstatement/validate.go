package cashstatement

import (
	"fmt"

	"github.com/shopspring/decimal"

	"comex/internal/allocation"
	"comex/internal/doctype/declaration"
	"comex/internal/domain"
	"comex/internal/validator"
)

type Validator struct {
	rules *validator.RuleSet[*Record]
}

func NewValidator(tol validator.Tolerances) *Validator {
	return &Validator{rules: validator.NewRuleSet(
		validator.Rule[*Record]{Key: "structure.sections", Pass: validator.PassStructural, Check: checkStructure},
		validator.Rule[*Record]{Key: "header.fields", Pass: validator.PassSection, Check: checkHeader},
		validator.Rule[*Record]{Key: "header.additions", Pass: validator.PassSection, Check: checkAdditions},
		validator.Rule[*Record]{Key: "items.fields", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			declaration.CheckItems(c, r.Items, r.Header.Additions)
		}},
		validator.Rule[*Record]{Key: "consistency.expenses", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			checkTotals(c, r.Header, tol)
		}},
		validator.Rule[*Record]{Key: "consistency.addition_values", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			declaration.CheckAdditionValues(c, r.Header.Additions, r.Items, tol.TaxAllocation)
		}},
		validator.Rule[*Record]{Key: "consistency.allocation", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			declaration.CheckAllocation(c, r.Header.Additions, r.TaxBreakdown, tol.TaxAllocation)
		}},
	)}
}

func (v *Validator) Validate(rec *Record) domain.ValidationResult {
	return v.rules.Run(rec)
}

func checkStructure(r *Record, c *validator.Collector) {
	if r.Header == nil {
		c.Error("header", domain.CodeMissingHeader, "cash statement header is missing")
	}
	if len(r.Items) == 0 {
		c.Error("items", domain.CodeMissingItems, "cash statement has no items")
	}
}

func checkHeader(r *Record, c *validator.Collector) {
	h := r.Header
	validator.Required(c, "statement_number", h.StatementNumber)
	validator.Date(c, "date", h.Date, true)
	validator.DINumber(c, "di_number", h.DINumber, false)
	validator.CNPJ(c, "importer_cnpj", h.ImporterCNPJ, false)
	validator.Recommended(c, "broker", h.Broker, "fill in the customs broker issuing the statement")
	for i, e := range h.Expenses {
		validator.Recommended(c, fmt.Sprintf("expenses[%d].description", i), e.Description, "name the expense as printed")
		validator.NonNegative(c, fmt.Sprintf("expenses[%d].amount", i), e.Amount)
	}
	validator.NonNegative(c, "expenses_total", h.ExpensesTotal)
	validator.NonNegative(c, "levies_total", h.LeviesTotal)
	validator.Positive(c, "grand_total", h.GrandTotal)
}

// Statements often omit the NCM per addition, so only numbering and levies are checked here.
func checkAdditions(r *Record, c *validator.Collector) {
	additions := r.Header.Additions
	if len(additions) == 0 {
		c.Error("additions", domain.CodeMissingRequiredField, "no additions were extracted")
		return
	}
	numbers := make([]int, len(additions))
	for i, a := range additions {
		numbers[i] = a.Number
		prefix := fmt.Sprintf("additions[%d]", i)
		validator.NCM(c, prefix+".ncm", a.NCM, false, nil)
		validator.Positive(c, prefix+".value", a.Value)
		for _, l := range a.Levies().Each() {
			validator.NonNegative(c, prefix+"."+l.Name, l.Amount)
		}
	}
	validator.Sequence(c, "additions[%d].number", numbers)
}

func checkTotals(c *validator.Collector, h *Header, tol validator.Tolerances) {
	if len(h.Expenses) > 0 {
		amounts := make([]decimal.Decimal, len(h.Expenses))
		for i, e := range h.Expenses {
			amounts[i] = e.Amount
		}
		sum := validator.Sum(amounts...)
		if !validator.Within(sum, h.ExpensesTotal, tol.Amount) {
			c.Error("consistency.expenses.total", domain.CodeAmountTotalMismatch,
				"expenses total %s, expense lines add up to %s", h.ExpensesTotal.StringFixed(2), sum.StringFixed(2))
		}
	}

	var levies allocation.Levies
	for _, a := range h.Additions {
		levies = levies.Add(a.Levies())
	}
	if !h.LeviesTotal.IsZero() && !validator.Within(levies.Total(), h.LeviesTotal, tol.TaxAllocation) {
		c.Error("consistency.levies.total", domain.CodeTaxTotalMismatch,
			"levies total %s, additions add up to %s", h.LeviesTotal.StringFixed(2), levies.Total().StringFixed(2))
	}

	composed := h.ExpensesTotal.Add(h.LeviesTotal)
	if !validator.Within(composed, h.GrandTotal, tol.Amount) {
		c.Error("consistency.grand_total", domain.CodeTotalCompositionMismatch,
			"grand total %s, expenses plus levies is %s", h.GrandTotal.StringFixed(2), composed.StringFixed(2))
	}
}
