// Package packinglist implements the PACKING_LIST document type.
package packinglist

import (
	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
)

// Container is one row of the header's container table.
type Container struct {
	Number       string          `json:"number"`
	Type         string          `json:"type,omitempty"`
	Seal         string          `json:"seal,omitempty"`
	PackageCount int             `json:"package_count"`
	GrossWeight  decimal.Decimal `json:"gross_weight"`
	NetWeight    decimal.Decimal `json:"net_weight"`
}

// Header holds identifiers, parties and shipment totals.
type Header struct {
	InvoiceNumber    string          `json:"invoice_number"`
	Date             string          `json:"date"`
	ExporterName     string          `json:"exporter_name"`
	ImporterName     string          `json:"importer_name"`
	ImporterCNPJ     string          `json:"importer_cnpj"`
	PackageTotal     int             `json:"package_total"`
	GrossWeightTotal decimal.Decimal `json:"gross_weight_total"`
	NetWeightTotal   decimal.Decimal `json:"net_weight_total"`
	Containers       []Container     `json:"containers"`
}

// Allocation is the part of an item loaded into one container.
type Allocation struct {
	ContainerNumber string          `json:"container_number"`
	Quantity        decimal.Decimal `json:"quantity"`
	PackageCount    int             `json:"package_count"`
	NetWeight       decimal.Decimal `json:"net_weight"`
	GrossWeight     decimal.Decimal `json:"gross_weight"`
}

// Item is one packed line.
type Item struct {
	LineNumber           int             `json:"line_number"`
	Reference            string          `json:"reference"`
	ProductCode          string          `json:"product_code"`
	Description          string          `json:"description"`
	DescriptionSecondary string          `json:"description_secondary"`
	Quantity             decimal.Decimal `json:"quantity"`
	Unit                 string          `json:"unit"`
	PackageCount         int             `json:"package_count"`
	PackageFrom          int             `json:"package_from"`
	PackageTo            int             `json:"package_to"`
	NetWeight            decimal.Decimal `json:"net_weight"`
	GrossWeight          decimal.Decimal `json:"gross_weight"`
	Allocations          []Allocation    `json:"allocations,omitempty"`
}

// Record is the canonical packing list.
type Record struct {
	Header *Header `json:"header"`
	Items  []Item  `json:"items"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypePackingList }

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
