package packinglist

import (
	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/processor"
)

var steps = []domain.ProcessingStep{
	{Ordinal: 1, Name: "header_containers", Target: domain.SectionHeader},
	{Ordinal: 2, Name: "items", ExpectsPriorOutput: true, Target: domain.SectionItems},
}

var schema = combiner.Schema{
	Numeric:      []string{"quantity", "gross_weight", "net_weight", "gross_weight_total", "net_weight_total"},
	Integer:      []string{"line_number", "package_total", "package_count", "package_from", "package_to"},
	ReferenceKey: "reference",
}

// New builds the PACKING_LIST processor.
func New(opts processor.Options) *processor.Processor {
	opts = opts.WithDefaults()
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypePackingList)
	v := NewValidator(opts.Tolerances)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    steps,
		Schema:   schema,
		Decode:   Decode,
		Validate: processor.Typed(v.Validate),
	}, opts)
}
