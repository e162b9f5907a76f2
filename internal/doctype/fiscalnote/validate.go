package fiscalnote

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/validator"
)

var hundred = decimal.NewFromInt(100)

type Validator struct {
	rules *validator.RuleSet[*Record]
}

// NewValidator builds the rule set. ncm may be nil.
func NewValidator(tol validator.Tolerances, ncm *validator.NCMLookup) *Validator {
	return &Validator{rules: validator.NewRuleSet(
		validator.Rule[*Record]{Key: "structure.sections", Pass: validator.PassStructural, Check: checkStructure},
		validator.Rule[*Record]{Key: "header.fields", Pass: validator.PassSection, Check: checkHeader},
		validator.Rule[*Record]{Key: "items.fields", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			checkItems(c, r.Items, tol, ncm)
		}},
		validator.Rule[*Record]{Key: "taxes.fields", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			checkTaxLines(c, r.TaxBreakdown, tol)
		}},
		validator.Rule[*Record]{Key: "consistency.tax_lines", Pass: validator.PassCrossSection, Check: checkTaxReferences},
		validator.Rule[*Record]{Key: "consistency.totals", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			checkTotals(c, r, tol)
		}},
	)}
}

func (v *Validator) Validate(rec *Record) domain.ValidationResult {
	return v.rules.Run(rec)
}

func checkStructure(r *Record, c *validator.Collector) {
	if r.Header == nil {
		c.Error("header", domain.CodeMissingHeader, "fiscal note header is missing")
	}
	if len(r.Items) == 0 {
		c.Error("items", domain.CodeMissingItems, "fiscal note has no product lines")
	}
}

func checkHeader(r *Record, c *validator.Collector) {
	h := r.Header
	validator.AccessKey(c, "access_key", h.AccessKey, true)
	validator.Required(c, "number", h.Number)
	validator.Date(c, "issue_date", h.IssueDate, true)
	validator.CNPJ(c, "issuer_cnpj", h.IssuerCNPJ, true)
	validator.Recommended(c, "issuer_name", h.IssuerName, "fill in the issuer as printed on the note")
	validator.TaxID(c, "recipient_id", h.RecipientID, false)
	for _, f := range []struct {
		name string
		v    decimal.Decimal
	}{
		{"products_total", h.ProductsTotal}, {"freight", h.Freight}, {"insurance", h.Insurance},
		{"discount", h.Discount}, {"other_expenses", h.OtherExpenses}, {"icms_total", h.ICMSTotal},
		{"ipi_total", h.IPITotal},
	} {
		validator.NonNegative(c, f.name, f.v)
	}
	validator.Positive(c, "invoice_total", h.InvoiceTotal)
}

func checkItems(c *validator.Collector, items []Item, tol validator.Tolerances, ncm *validator.NCMLookup) {
	lines := make([]int, len(items))
	codes := make([]string, len(items))
	for i, it := range items {
		lines[i] = it.LineNumber
		codes[i] = it.ProductCode
		prefix := fmt.Sprintf("items[%d]", i)
		validator.Required(c, prefix+".description", it.Description)
		validator.NCM(c, prefix+".ncm", it.NCM, false, ncm)
		validator.Positive(c, prefix+".quantity", it.Quantity)
		validator.NonNegative(c, prefix+".unit_price", it.UnitPrice)
		expected := it.Quantity.Mul(it.UnitPrice)
		if !validator.Within(expected, it.TotalPrice, tol.Amount) {
			c.Error(prefix+".total_price", domain.CodeItemTotalMismatch,
				"line total %s, quantity x unit price is %s", it.TotalPrice.StringFixed(2), expected.StringFixed(2))
		}
	}
	validator.Sequence(c, "items[%d].line_number", lines)
	validator.Duplicates(c, "items[%d].product_code", "product code", codes)
}

func checkTaxLines(c *validator.Collector, taxes []TaxLine, tol validator.Tolerances) {
	for i, t := range taxes {
		prefix := fmt.Sprintf("tax_breakdown[%d]", i)
		switch strings.ToUpper(strings.TrimSpace(t.Tax)) {
		case TaxICMS, TaxIPI:
		default:
			c.Warn(prefix+".tax", "only ICMS and IPI lines are reconciled", "tax %q is not reconciled against header totals", t.Tax)
		}
		validator.NonNegative(c, prefix+".base", t.Base)
		validator.Range(c, prefix+".rate", t.Rate, decimal.Zero, hundred, true)
		expected := t.Base.Mul(t.Rate).Div(hundred)
		if !validator.Within(expected, t.Amount, tol.Amount) {
			c.Error(prefix+".amount", domain.CodeTaxAmountMismatch,
				"tax amount %s, base x rate is %s", t.Amount.StringFixed(2), expected.StringFixed(2))
		}
	}
}

func checkTaxReferences(r *Record, c *validator.Collector) {
	lines := make(map[int]bool, len(r.Items))
	for _, it := range r.Items {
		lines[it.LineNumber] = true
	}
	for i, t := range r.TaxBreakdown {
		if !lines[t.LineNumber] {
			c.Error(fmt.Sprintf("tax_breakdown[%d].line_number", i), domain.CodeInvalidReference,
				"tax line refers to product line %d, which does not exist", t.LineNumber)
		}
	}
}

func checkTotals(c *validator.Collector, r *Record, tol validator.Tolerances) {
	h := r.Header
	var products decimal.Decimal
	for _, it := range r.Items {
		products = products.Add(it.Quantity.Mul(it.UnitPrice))
	}
	if !validator.Within(products, h.ProductsTotal, tol.Amount) {
		c.Error("consistency.products_total", domain.CodeAmountTotalMismatch,
			"products total %s, quantity x unit price adds up to %s", h.ProductsTotal.StringFixed(2), products.StringFixed(2))
	}

	composed := validator.Sum(h.ProductsTotal, h.Freight, h.Insurance, h.OtherExpenses, h.IPITotal).Sub(h.Discount)
	if !validator.Within(composed, h.InvoiceTotal, tol.Amount) {
		c.Error("consistency.invoice_total", domain.CodeTotalCompositionMismatch,
			"invoice total %s, products plus charges and IPI minus discount is %s", h.InvoiceTotal.StringFixed(2), composed.StringFixed(2))
	}

	if len(r.TaxBreakdown) == 0 {
		return
	}
	sums := map[string]decimal.Decimal{}
	for _, t := range r.TaxBreakdown {
		kind := strings.ToUpper(strings.TrimSpace(t.Tax))
		sums[kind] = sums[kind].Add(t.Amount)
	}
	for _, want := range []struct {
		tax   string
		total decimal.Decimal
	}{{TaxICMS, h.ICMSTotal}, {TaxIPI, h.IPITotal}} {
		if !validator.Within(sums[want.tax], want.total, tol.Amount) {
			c.Error("consistency.taxes."+strings.ToLower(want.tax)+"_total", domain.CodeTaxTotalMismatch,
				"%s total %s, tax lines add up to %s", want.tax, want.total.StringFixed(2), sums[want.tax].StringFixed(2))
		}
	}
}
