package commercialinvoice

import (
	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/processor"
)

// Steps is the extraction plan shared by invoice-like documents.
var Steps = []domain.ProcessingStep{
	{Ordinal: 1, Name: "header", Target: domain.SectionHeader},
	{Ordinal: 2, Name: "items", ExpectsPriorOutput: true, Target: domain.SectionItems},
}

// Schema is the raw-step shape shared by invoice-like documents.
var Schema = combiner.Schema{
	Numeric: []string{
		"freight", "insurance", "total_amount",
		"quantity", "unit_price", "total_price", "net_weight", "gross_weight",
	},
	Integer:      []string{"line_number"},
	ReferenceKey: "reference",
}

// New builds the COMMERCIAL_INVOICE processor.
func New(opts processor.Options) *processor.Processor {
	opts = opts.WithDefaults()
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeCommercialInvoice)
	v := NewValidator(opts.Tolerances, opts.NCM)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    Steps,
		Schema:   Schema,
		Decode:   Decode,
		Validate: processor.Typed(v.Validate),
	}, opts)
}
