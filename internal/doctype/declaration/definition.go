package declaration

import (
	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/processor"
)

var steps = []domain.ProcessingStep{
	{Ordinal: 1, Name: "header", Target: domain.SectionHeader},
	{Ordinal: 2, Name: "additions", Target: domain.SectionHeader, TargetField: "additions"},
	{Ordinal: 3, Name: "disposition", ExpectsPriorOutput: true, Target: domain.SectionIntermediate},
	{Ordinal: 4, Name: "items", ExpectsPriorOutput: true, Target: domain.SectionItems},
}

// Schema is the raw-step shape of addition-based documents.
var Schema = combiner.Schema{
	Numeric: []string{
		"exchange_rate", "total_value", "ii_total", "ipi_total", "pis_total", "cofins_total",
		"value", "ii", "ipi", "pis", "cofins", "quantity", "unit_price", "share_percent",
		"expenses_total", "amount", "grand_total", "levies_total",
	},
	Integer: []string{"number", "line_number", "addition_number"},
}

// New builds the DECLARATION processor.
func New(opts processor.Options) *processor.Processor {
	opts = opts.WithDefaults()
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeDeclaration)
	v := NewValidator(opts.Tolerances, opts.NCM)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    steps,
		Schema:   Schema,
		Decode:   Decode,
		Validate: processor.Typed(v.Validate),
	}, opts)
}
