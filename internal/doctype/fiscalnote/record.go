// Package fiscalnote implements the FISCAL_NOTE document type (Brazilian NF-e).
package fiscalnote

import (
	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
)

// Tax kinds itemized per line.
const (
	TaxICMS = "ICMS"
	TaxIPI  = "IPI"
)

type Header struct {
	AccessKey     string          `json:"access_key"`
	Number        string          `json:"number"`
	Series        string          `json:"series"`
	IssueDate     string          `json:"issue_date"`
	IssuerName    string          `json:"issuer_name"`
	IssuerCNPJ    string          `json:"issuer_cnpj"`
	RecipientName string          `json:"recipient_name"`
	RecipientID   string          `json:"recipient_id"`
	ProductsTotal decimal.Decimal `json:"products_total"`
	Freight       decimal.Decimal `json:"freight"`
	Insurance     decimal.Decimal `json:"insurance"`
	Discount      decimal.Decimal `json:"discount"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`
	ICMSTotal     decimal.Decimal `json:"icms_total"`
	IPITotal      decimal.Decimal `json:"ipi_total"`
	InvoiceTotal  decimal.Decimal `json:"invoice_total"`
}

type Item struct {
	LineNumber  int             `json:"line_number"`
	ProductCode string          `json:"product_code"`
	Description string          `json:"description"`
	NCM         string          `json:"ncm"`
	CFOP        string          `json:"cfop"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// TaxLine is one levy computed for one product line.
type TaxLine struct {
	LineNumber int             `json:"line_number"`
	Tax        string          `json:"tax"`
	Base       decimal.Decimal `json:"base"`
	Rate       decimal.Decimal `json:"rate"`
	Amount     decimal.Decimal `json:"amount"`
}

type Record struct {
	Header       *Header   `json:"header"`
	Items        []Item    `json:"items"`
	TaxBreakdown []TaxLine `json:"tax_breakdown"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeFiscalNote }

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
	return rec, nil
}
