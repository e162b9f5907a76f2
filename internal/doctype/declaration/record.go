// Package declaration implements the DECLARATION (import declaration) document type.
package declaration

import (
	"github.com/shopspring/decimal"

	"comex/internal/allocation"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
)

// Addition groups items sharing one tariff classification and origin. Levies are stated here in aggregate.
type Addition struct {
	Number        int             `json:"number"`
	NCM           string          `json:"ncm"`
	OriginCountry string          `json:"origin_country"`
	Value         decimal.Decimal `json:"value"`
	II            decimal.Decimal `json:"ii"`
	IPI           decimal.Decimal `json:"ipi"`
	PIS           decimal.Decimal `json:"pis"`
	COFINS        decimal.Decimal `json:"cofins"`
}

// Levies returns the addition's aggregate levies.
func (a Addition) Levies() allocation.Levies {
	return allocation.Levies{II: a.II, IPI: a.IPI, PIS: a.PIS, COFINS: a.COFINS}
}

// Header holds the declaration identifiers, importer, levy totals and additions.
type Header struct {
	DINumber         string          `json:"di_number"`
	RegistrationDate string          `json:"registration_date"`
	ImporterName     string          `json:"importer_name"`
	ImporterCNPJ     string          `json:"importer_cnpj"`
	CustomsUnit      string          `json:"customs_unit"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	TotalValue       decimal.Decimal `json:"total_value"`
	IITotal          decimal.Decimal `json:"ii_total"`
	IPITotal         decimal.Decimal `json:"ipi_total"`
	PISTotal         decimal.Decimal `json:"pis_total"`
	COFINSTotal      decimal.Decimal `json:"cofins_total"`
	Additions        []Addition      `json:"additions"`
}

// LevyTotals returns the header-level levy totals.
func (h *Header) LevyTotals() allocation.Levies {
	return allocation.Levies{II: h.IITotal, IPI: h.IPITotal, PIS: h.PISTotal, COFINS: h.COFINSTotal}
}

// Item is one commercial line assigned to an addition.
type Item struct {
	LineNumber     int             `json:"line_number"`
	AdditionNumber int             `json:"addition_number"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Value          decimal.Decimal `json:"value"`
}

// Record is the canonical import declaration. TaxBreakdown holds per-item levy allocations.
type Record struct {
	Header       *Header          `json:"header"`
	Items        []Item           `json:"items"`
	TaxBreakdown []allocation.Row `json:"tax_breakdown"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeDeclaration }

func (r *Record) Sections() (port.RecordSections, error) {
	return processor.EncodeSections(r.Header, r.Items, r.TaxBreakdown)
}

// Decode rebuilds a Record from flattened sections. When no breakdown was extracted or stored it is
// derived by proportional allocation.
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
		rec.TaxBreakdown = Allocate(rec.Header.Additions, rec.Items)
	}
	return rec, nil
}

// Allocate distributes addition levies over items by value share.
func Allocate(additions []Addition, items []Item) []allocation.Row {
	adds := make([]allocation.Addition, len(additions))
	for i, a := range additions {
		adds[i] = allocation.Addition{Number: a.Number, Value: a.Value, Levies: a.Levies()}
	}
	its := make([]allocation.Item, len(items))
	for i, it := range items {
		its[i] = allocation.Item{LineNumber: it.LineNumber, AdditionNumber: it.AdditionNumber, Value: it.Value}
	}
	rows := allocation.Allocate(adds, its)
	if len(rows) == 0 {
		return nil
	}
	return rows
}
