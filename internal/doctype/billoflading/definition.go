package billoflading

import (
	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/processor"
)

var steps = []domain.ProcessingStep{
	{Ordinal: 1, Name: "header_containers", Target: domain.SectionHeader},
	{Ordinal: 2, Name: "cargo", ExpectsPriorOutput: true, Target: domain.SectionItems},
}

var schema = combiner.Schema{
	Numeric: []string{"gross_weight_total", "gross_weight"},
	Integer: []string{"line_number", "packages", "package_total"},
}

// New builds the BILL_OF_LADING processor.
func New(opts processor.Options) *processor.Processor {
	opts = opts.WithDefaults()
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeBillOfLading)
	v := NewValidator(opts.Tolerances)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    steps,
		Schema:   schema,
		Decode:   Decode,
		Validate: processor.Typed(v.Validate),
	}, opts)
}
