// Package unknown implements the UNKNOWN document type: a catch-all whose header is kept as an opaque
// object for manual classification.
package unknown

import (
	"encoding/json"

	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/validator"
)

type Record struct {
	Header map[string]any `json:"header"`
}

func (r *Record) DocumentType() domain.DocumentType { return domain.DocumentTypeUnknown }

func (r *Record) Sections() (port.RecordSections, error) {
	var header any
	if r.Header != nil {
		header = r.Header
	}
	return processor.EncodeSections(header, nil, nil)
}

func Decode(s port.RecordSections) (port.CanonicalRecord, error) {
	rec := &Record{}
	if processor.IsEmpty(s.Header) {
		return rec, nil
	}
	var v any
	if err := json.Unmarshal(s.Header, &v); err != nil {
		return nil, err
	}
	if obj, ok := v.(map[string]any); ok {
		rec.Header = obj
	} else {
		rec.Header = map[string]any{"content": v}
	}
	return rec, nil
}

// Validate always passes and asks for manual classification.
func Validate(*Record) domain.ValidationResult {
	c := validator.NewCollector()
	c.Warn("document_type", "classify the document manually and reprocess it under the right type",
		"document type could not be determined")
	return c.Result()
}

// New builds the UNKNOWN processor.
func New(opts processor.Options) *processor.Processor {
	meta, _ := domain.DefaultTypeMetadata(domain.DocumentTypeUnknown)
	return processor.New(processor.Definition{
		Metadata: meta,
		Steps:    []domain.ProcessingStep{{Ordinal: 1, Name: "freeform", Target: domain.SectionHeader}},
		Schema:   combiner.Schema{OpaqueHeader: true},
		Decode:   Decode,
		Validate: processor.Typed(Validate),
	}, opts)
}
