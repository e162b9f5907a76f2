// Package proformainvoice implements the PROFORMA_INVOICE document type. It shares the invoice
// layout and checks and adds a validity date.
package proformainvoice

import (
	"comex/internal/doctype/commercialinvoice"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/validator"
)

// Header is the commercial invoice header plus the offer validity.
type Header struct {
	commercialinvoice.Header
	ValidUntil string `json:"valid_until"`
}

// Record is the canonical proforma invoice.
type Record struct {
	Header *Header                  `json:"header"`
	Items  []commercialinvoice.Item `json:"items"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeProformaInvoice }

func (r *Record) Sections() (port.RecordSections, error) {
	return processor.EncodeSections(r.Header, r.Items, nil)
}

// Decode rebuilds a Record from flattened sections.
func Decode(s port.RecordSections) (port.CanonicalRecord, error) {
	rec := &Record{}
	if err := processor.DecodeSection("header", s.Header, &rec.Header); err != nil {
		return nil, err
	}
	if err := processor.DecodeSection("items", s.Items, &rec.Items); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validator runs the invoice checks plus the validity window.
type Validator struct {
	rules *validator.RuleSet[*Record]
}

// NewValidator builds the rule set. ncm may be nil.
func NewValidator(tol validator.Tolerances, ncm *validator.NCMLookup) *Validator {
	return &Validator{rules: validator.NewRuleSet(
		validator.Rule[*Record]{Key: "structure.sections", Pass: validator.PassStructural, Check: func(r *Record, c *validator.Collector) {
			var h *commercialinvoice.Header
			if r.Header != nil {
				h = &r.Header.Header
			}
			commercialinvoice.CheckStructure(c, h, r.Items)
		}},
		validator.Rule[*Record]{Key: "header.fields", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			commercialinvoice.CheckHeader(c, &r.Header.Header)
			validator.Date(c, "valid_until", r.Header.ValidUntil, false)
		}},
		validator.Rule[*Record]{Key: "items.fields", Pass: validator.PassSection, Check: func(r *Record, c *validator.Collector) {
			commercialinvoice.CheckItems(c, r.Items, tol, ncm)
		}},
		validator.Rule[*Record]{Key: "consistency.amount", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			commercialinvoice.CheckAmounts(c, &r.Header.Header, r.Items, tol)
		}},
		validator.Rule[*Record]{Key: "consistency.validity", Pass: validator.PassCrossSection, Check: checkValidity},
	)}
}

// Validate runs the structural, per-section and cross-section passes.
func (v *Validator) Validate(rec *Record) domain.ValidationResult {
	return v.rules.Run(rec)
}

func checkValidity(r *Record, c *validator.Collector) {
	issued, ok1 := validator.ParseDate(r.Header.Date)
	until, ok2 := validator.ParseDate(r.Header.ValidUntil)
	if !ok1 || !ok2 {
		return
	}
	if until.Before(issued) {
		c.Warn("valid_until", "confirm the offer validity with the seller",
			"valid_until %s is before the issue date %s", r.Header.ValidUntil, r.Header.Date)
	}
}

// New builds the PROFORMA_INVOICE processor.
func New(opts processor.Options) *processor.Processor {
	opts = opts.WithDefaults()
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeProformaInvoice)
	v := NewValidator(opts.Tolerances, opts.NCM)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    commercialinvoice.Steps,
		Schema:   commercialinvoice.Schema,
		Decode:   Decode,
		Validate: processor.Typed(v.Validate),
	}, opts)
}
