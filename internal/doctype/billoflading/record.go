// Package billoflading implements the BILL_OF_LADING document type.
package billoflading

import (
	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
)

type Container struct {
	Number      string          `json:"number"`
	SealNumber  string          `json:"seal_number"`
	Type        string          `json:"type"`
	Packages    int             `json:"packages"`
	GrossWeight decimal.Decimal `json:"gross_weight"`
}

type Header struct {
	BLNumber         string          `json:"bl_number"`
	IssueDate        string          `json:"issue_date"`
	Shipper          string          `json:"shipper"`
	Consignee        string          `json:"consignee"`
	ConsigneeCNPJ    string          `json:"consignee_cnpj"`
	NotifyParty      string          `json:"notify_party"`
	Vessel           string          `json:"vessel"`
	Voyage           string          `json:"voyage"`
	PortOfLoading    string          `json:"port_of_loading"`
	PortOfDischarge  string          `json:"port_of_discharge"`
	PackageTotal     int             `json:"package_total"`
	GrossWeightTotal decimal.Decimal `json:"gross_weight_total"`
	Containers       []Container     `json:"containers"`
}

// Item is one cargo line as described on the bill.
type Item struct {
	LineNumber      int             `json:"line_number"`
	Marks           string          `json:"marks"`
	Description     string          `json:"description"`
	Packages        int             `json:"packages"`
	PackageType     string          `json:"package_type"`
	GrossWeight     decimal.Decimal `json:"gross_weight"`
	ContainerNumber string          `json:"container_number"`
}

type Record struct {
	Header *Header `json:"header"`
	Items  []Item  `json:"items"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeBillOfLading }

func (r *Record) Sections() (port.RecordSections, error) {
	return processor.EncodeSections(r.Header, r.Items, nil)
}

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
