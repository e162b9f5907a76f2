package domain

var defaultMetadata = map[DocumentType]TypeMetadata{
	DocumentTypePackingList: {
		Tag:                     DocumentTypePackingList,
		HumanLabel:              "Packing List",
		Description:             "Packages, containers, weights and per-item package ranges of a shipment",
		SupportedFileExtensions: []string{"pdf", "xlsx", "xls", "jpg", "jpeg", "png"},
		IsMultiStep:             true,
	},
	DocumentTypeCommercialInvoice: {
		Tag:                     DocumentTypeCommercialInvoice,
		HumanLabel:              "Commercial Invoice",
		Description:             "Seller invoice with line items, unit prices and incoterm",
		SupportedFileExtensions: []string{"pdf", "xlsx", "xls", "jpg", "jpeg", "png"},
		IsMultiStep:             true,
	},
	DocumentTypeProformaInvoice: {
		Tag:                     DocumentTypeProformaInvoice,
		HumanLabel:              "Proforma Invoice",
		Description:             "Preliminary invoice issued before shipment",
		SupportedFileExtensions: []string{"pdf", "xlsx", "xls", "jpg", "jpeg", "png"},
		IsMultiStep:             true,
	},
	DocumentTypeDeclaration: {
		Tag:                     DocumentTypeDeclaration,
		HumanLabel:              "Import Declaration (DI)",
		Description:             "Customs import declaration with additions and levies",
		SupportedFileExtensions: []string{"pdf", "xml"},
		IsMultiStep:             true,
	},
	DocumentTypeBankMessage: {
		Tag:                     DocumentTypeBankMessage,
		HumanLabel:              "Bank Message (SWIFT)",
		Description:             "Payment message between banks",
		SupportedFileExtensions: []string{"pdf", "txt"},
		IsMultiStep:             false,
	},
	DocumentTypeCashStatement: {
		Tag:                     DocumentTypeCashStatement,
		HumanLabel:              "Cash Statement",
		Description:             "Customs broker statement of expenses and levies paid",
		SupportedFileExtensions: []string{"pdf", "xlsx", "xls"},
		IsMultiStep:             true,
	},
	DocumentTypeFiscalNote: {
		Tag:                     DocumentTypeFiscalNote,
		HumanLabel:              "Fiscal Note (NF-e)",
		Description:             "Electronic tax invoice with per-line ICMS and IPI",
		SupportedFileExtensions: []string{"pdf", "xml"},
		IsMultiStep:             true,
	},
	DocumentTypeBillOfLading: {
		Tag:                     DocumentTypeBillOfLading,
		HumanLabel:              "Bill of Lading",
		Description:             "Carrier receipt listing containers and cargo",
		SupportedFileExtensions: []string{"pdf", "jpg", "jpeg", "png"},
		IsMultiStep:             true,
	},
	DocumentTypeExchangeContract: {
		Tag:                     DocumentTypeExchangeContract,
		HumanLabel:              "Exchange Contract",
		Description:             "Foreign exchange contract settling an import payment",
		SupportedFileExtensions: []string{"pdf"},
		IsMultiStep:             false,
	},
	DocumentTypeUnknown: {
		Tag:                     DocumentTypeUnknown,
		HumanLabel:              "Unknown Document",
		Description:             "Unclassified document kept for manual review",
		SupportedFileExtensions: []string{"pdf", "jpg", "jpeg", "png", "xlsx", "xls", "txt", "xml"},
		IsMultiStep:             false,
	},
}

// DefaultTypeMetadata returns a copy of the built-in metadata for a tag.
func DefaultTypeMetadata(t DocumentType) (TypeMetadata, bool) {
	m, ok := defaultMetadata[t]
	if !ok {
		return TypeMetadata{}, false
	}
	m.SupportedFileExtensions = append([]string(nil), m.SupportedFileExtensions...)
	return m, true
}
