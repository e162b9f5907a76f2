package commercialinvoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/validator"
)

// Validator checks invoice fields and amount consistency.
type Validator struct {
	rules *validator.RuleSet[*Record]
}

// NewValidator builds the rule set. ncm may be nil.
func NewValidator(tol validator.Tolerances, ncm *validator.NCMLookup) *Validator {
	return &Validator{rules: validator.NewRuleSet(
		validator.Rule[*Record]{Key: "structure.sections", Pass: validator.PassStructural, Check: func(r *Record, c *validator.Collector) {
			CheckStructure(c, r.Header, r.Items)
		}},
		validator.Rule[*Record]{Key: "header.fields", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			CheckHeader(c, r.Header)
		}},
		validator.Rule[*Record]{Key: "items.fields", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			CheckItems(c, r.Items, tol, ncm)
		}},
		validator.Rule[*Record]{Key: "consistency.amount", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			CheckAmounts(c, r.Header, r.Items, tol)
		}},
	)}
}

// Validate runs the structural, per-section and cross-section passes.
func (v *Validator) Validate(rec *Record) domain.ValidationResult {
	return v.rules.Run(rec)
}

// CheckStructure requires a header and at least one item.
func CheckStructure(c *validator.Collector, h *Header, items []Item) {
	if h == nil {
		c.Error("header", domain.CodeMissingHeader, "invoice header is missing")
	}
	if len(items) == 0 {
		c.Error("items", domain.CodeMissingItems, "invoice has no items")
	}
}

// CheckHeader validates identifiers, parties and commercial terms.
func CheckHeader(c *validator.Collector, h *Header) {
	validator.Required(c, "invoice_number", h.InvoiceNumber)
	validator.Date(c, "date", h.Date, true)
	validator.Required(c, "seller_name", h.SellerName)
	validator.Recommended(c, "importer_name", h.ImporterName, "fill in the importer as printed on the invoice")
	validator.CNPJ(c, "importer_cnpj", h.ImporterCNPJ, false)
	validator.Currency(c, "currency", h.Currency, true)
	validator.Incoterm(c, "incoterm", h.Incoterm)
	validator.Recommended(c, "country_origin", h.CountryOrigin, "country of origin is needed for the import declaration")
	validator.Positive(c, "total_amount", h.TotalAmount)
	validator.NonNegative(c, "freight", h.Freight)
	validator.NonNegative(c, "insurance", h.Insurance)
}

// CheckItems validates each line and its own arithmetic.
func CheckItems(c *validator.Collector, items []Item, tol validator.Tolerances, ncm *validator.NCMLookup) {
	lines := make([]int, len(items))
	codes := make([]string, len(items))
	for i, it := range items {
		lines[i] = it.LineNumber
		codes[i] = it.ProductCode
		prefix := fmt.Sprintf("items[%d]", i)
		validator.Required(c, prefix+".description", it.Description)
		validator.Recommended(c, prefix+".description_secondary", it.DescriptionSecondary,
			"add the secondary-language description required for customs clearance")
		validator.NCM(c, prefix+".ncm", it.NCM, false, ncm)
		validator.Positive(c, prefix+".quantity", it.Quantity)
		validator.NonNegative(c, prefix+".unit_price", it.UnitPrice)
		validator.ZeroWarning(c, prefix+".unit_price", it.UnitPrice)
		if !it.TotalPrice.IsZero() {
			expected := it.Quantity.Mul(it.UnitPrice)
			if !validator.Within(expected, it.TotalPrice, tol.Amount) {
				c.Error(prefix+".total_price", domain.CodeItemTotalMismatch,
					"quantity %s x unit price %s = %s, line states %s", it.Quantity, it.UnitPrice, expected.StringFixed(2), it.TotalPrice)
			}
		}
	}
	validator.Sequence(c, "items[%d].line_number", lines)
	validator.Duplicates(c, "items[%d].product_code", "product code", codes)
}

// ItemsTotal recomputes Σ(quantity x unit price).
func ItemsTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity.Mul(it.UnitPrice))
	}
	return total
}

// CheckAmounts compares the recomputed item total with the declared header total. A header total that
// also includes freight and insurance is accepted with a warning.
func CheckAmounts(c *validator.Collector, h *Header, items []Item, tol validator.Tolerances) {
	sum := ItemsTotal(items)
	if validator.Within(sum, h.TotalAmount, tol.Amount) {
		return
	}
	withCharges := sum.Add(h.Freight).Add(h.Insurance)
	if (h.Freight.IsPositive() || h.Insurance.IsPositive()) && validator.Within(withCharges, h.TotalAmount, tol.Amount) {
		c.Warn("consistency.amount.header_items", "confirm the incoterm covers freight and insurance",
			"header total %s includes freight and insurance; items add up to %s", h.TotalAmount.StringFixed(2), sum.StringFixed(2))
		return
	}
	c.Error("consistency.amount.header_items", domain.CodeAmountTotalMismatch,
		"items add up to %s, header total is %s", sum.StringFixed(2), h.TotalAmount.StringFixed(2))
}
