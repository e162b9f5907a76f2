package fiscalnote

import (
	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/processor"
)

var steps = []domain.ProcessingStep{
	{Ordinal: 1, Name: "header", Target: domain.SectionHeader},
	{Ordinal: 2, Name: "items", Target: domain.SectionItems},
	{Ordinal: 3, Name: "taxes", ExpectsPriorOutput: true, Target: domain.SectionTaxBreakdown},
}

var schema = combiner.Schema{
	Numeric: []string{
		"products_total", "freight", "insurance", "discount", "other_expenses", "icms_total", "ipi_total",
		"invoice_total", "quantity", "unit_price", "total_price", "base", "rate", "amount",
	},
	Integer: []string{"line_number"},
}

// New builds the FISCAL_NOTE processor.
func New(opts processor.Options) *processor.Processor {
	opts = opts.WithDefaults()
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeFiscalNote)
	v := NewValidator(opts.Tolerances, opts.NCM)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    steps,
		Schema:   schema,
		Decode:   Decode,
		Validate: processor.Typed(v.Validate),
	}, opts)
}
