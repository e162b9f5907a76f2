// Package cashstatement implements the CASH_STATEMENT document type: the customs broker's
// settlement of levies and clearance expenses for one declaration.
package cashstatement

import (
	"github.com/shopspring/decimal"

	"comex/internal/allocation"
	"comex/internal/doctype/declaration"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
)

// Expense is one clearance cost line (storage, handling, broker fee).
type Expense struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type Header struct {
	StatementNumber string                 `json:"statement_number"`
	Date            string                 `json:"date"`
	Broker          string                 `json:"broker"`
	ImporterCNPJ    string                 `json:"importer_cnpj"`
	DINumber        string                 `json:"di_number"`
	Expenses        []Expense              `json:"expenses"`
	ExpensesTotal   decimal.Decimal        `json:"expenses_total"`
	LeviesTotal     decimal.Decimal        `json:"levies_total"`
	GrandTotal      decimal.Decimal        `json:"grand_total"`
	Additions       []declaration.Addition `json:"additions"`
}

type Record struct {
	Header       *Header            `json:"header"`
	Items        []declaration.Item `json:"items"`
	TaxBreakdown []allocation.Row   `json:"tax_breakdown"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeCashStatement }

func (r *Record) Sections() (port.RecordSections, error) {
	return processor.EncodeSections(r.Header, r.Items, r.TaxBreakdown)
}

func Decode(s port.RecordSections) (port.CanonicalRecord, error) {
	rec := &Record{}
	if err := processor.DecodeSection("header", s.Header, &rec.Header); err != nil {
		return nil, err
	}
	if err := processor.DecodeSection("items", s.Items, &rec.Items); err != nil {
		return nil, err
	}
	if err := processor.DecodeSection("tax_breakdown", s.TaxBreakdown, &rec.TaxBreakdown); err != nil {
		return nil, err
	}
	if len(rec.TaxBreakdown) == 0 && rec.Header != nil {
		rec.TaxBreakdown = declaration.Allocate(rec.Header.Additions, rec.Items)
	}
	return rec, nil
}
