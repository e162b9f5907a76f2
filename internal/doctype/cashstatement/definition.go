package cashstatement

import (
	"comex/internal/doctype/declaration"
	"comex/internal/domain"
	"comex/internal/processor"
)

var steps = []domain.ProcessingStep{
	{Ordinal: 1, Name: "header", Target: domain.SectionHeader},
	{Ordinal: 2, Name: "additions", Target: domain.SectionHeader, TargetField: "additions"},
	{Ordinal: 3, Name: "items", ExpectsPriorOutput: true, Target: domain.SectionItems},
}

// New builds the CASH_STATEMENT processor.
func New(opts processor.Options) *processor.Processor {
	opts = opts.WithDefaults()
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeCashStatement)
	v := NewValidator(opts.Tolerances)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    steps,
		Schema:   declaration.Schema,
		Decode:   Decode,
		Validate: processor.Typed(v.Validate),
	}, opts)
}
