// Package commercialinvoice implements the COMMERCIAL_INVOICE document type.
package commercialinvoice

import (
	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
)

// Header holds parties, identifiers, commercial terms and totals.
type Header struct {
	InvoiceNumber string          `json:"invoice_number"`
	Date          string          `json:"date"`
	SellerName    string          `json:"seller_name"`
	SellerAddress string          `json:"seller_address"`
	ImporterName  string          `json:"importer_name"`
	ImporterCNPJ  string          `json:"importer_cnpj"`
	Currency      string          `json:"currency"`
	Incoterm      string          `json:"incoterm"`
	PaymentTerms  string          `json:"payment_terms"`
	CountryOrigin string          `json:"country_origin"`
	Freight       decimal.Decimal `json:"freight"`
	Insurance     decimal.Decimal `json:"insurance"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Item is one invoiced line.
type Item struct {
	LineNumber           int             `json:"line_number"`
	Reference            string          `json:"reference"`
	ProductCode          string          `json:"product_code"`
	NCM                  string          `json:"ncm"`
	Description          string          `json:"description"`
	DescriptionSecondary string          `json:"description_secondary"`
	Quantity             decimal.Decimal `json:"quantity"`
	Unit                 string          `json:"unit"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	TotalPrice           decimal.Decimal `json:"total_price"`
	NetWeight            decimal.Decimal `json:"net_weight"`
	GrossWeight          decimal.Decimal `json:"gross_weight"`
}

// Record is the canonical commercial invoice.
type Record struct {
	Header *Header `json:"header"`
	Items  []Item  `json:"items"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeCommercialInvoice }

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
