package domain

import "strings"

// DocumentType is the closed set of trade-compliance document kinds the framework understands.
type DocumentType string

const (
	DocumentTypePackingList       DocumentType = "PACKING_LIST"
	DocumentTypeCommercialInvoice DocumentType = "COMMERCIAL_INVOICE"
	DocumentTypeProformaInvoice   DocumentType = "PROFORMA_INVOICE"
	DocumentTypeDeclaration       DocumentType = "DECLARATION"
	DocumentTypeBankMessage       DocumentType = "BANK_MESSAGE"
	DocumentTypeCashStatement     DocumentType = "CASH_STATEMENT"
	DocumentTypeFiscalNote        DocumentType = "FISCAL_NOTE"
	DocumentTypeBillOfLading      DocumentType = "BILL_OF_LADING"
	DocumentTypeExchangeContract  DocumentType = "EXCHANGE_CONTRACT"
	DocumentTypeUnknown           DocumentType = "UNKNOWN"
)

// AllDocumentTypes lists every tag in bootstrap order.
var AllDocumentTypes = []DocumentType{
	DocumentTypePackingList,
	DocumentTypeCommercialInvoice,
	DocumentTypeProformaInvoice,
	DocumentTypeDeclaration,
	DocumentTypeBankMessage,
	DocumentTypeCashStatement,
	DocumentTypeFiscalNote,
	DocumentTypeBillOfLading,
	DocumentTypeExchangeContract,
	DocumentTypeUnknown,
}

// ParseDocumentType maps a case-insensitive tag to a DocumentType.
func ParseDocumentType(s string) (DocumentType, bool) {
	candidate := DocumentType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range AllDocumentTypes {
		if t == candidate {
			return t, true
		}
	}
	return DocumentTypeUnknown, false
}

func (t DocumentType) String() string { return string(t) }

// FileType represents the allowed source file formats.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeXLSX FileType = "xlsx"
	FileTypeXLS  FileType = "xls"
	FileTypeTXT  FileType = "txt"
	FileTypeXML  FileType = "xml"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"xlsx": FileTypeXLSX,
	"xls":  FileTypeXLS,
	"txt":  FileTypeTXT,
	"xml":  FileTypeXML,
}

// ContentTypes maps FileType to its MIME content type.
var ContentTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FileTypeXLS:  "application/vnd.ms-excel",
	FileTypeTXT:  "text/plain",
	FileTypeXML:  "application/xml",
}

// NormalizeExtension lowercases an extension and strips a leading dot.
func NormalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// ValidationStatus is the persisted summary of a ValidationResult.
type ValidationStatus string

const (
	ValidationStatusPending ValidationStatus = "pending"
	ValidationStatusValid   ValidationStatus = "valid"
	ValidationStatusWarning ValidationStatus = "warning"
	ValidationStatusInvalid ValidationStatus = "invalid"
)

// Section names a CanonicalRecord section.
type Section string

const (
	SectionHeader       Section = "header"
	SectionItems        Section = "items"
	SectionTaxBreakdown Section = "tax_breakdown"
	// SectionIntermediate marks a step whose output only feeds the next step.
	SectionIntermediate Section = "intermediate"
)
