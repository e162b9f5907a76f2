package port

import (
	"context"
	"encoding/json"

	"comex/internal/domain"
)

// RecordSections is the flattened {Header, Items[], TaxBreakdown[]} triple of a CanonicalRecord.
type RecordSections struct {
	Header       json.RawMessage `json:"header"`
	Items        json.RawMessage `json:"items"`
	TaxBreakdown json.RawMessage `json:"tax_breakdown"`
}

// CanonicalRecord is the typed, normalized representation of one document's extracted data.
type CanonicalRecord interface {
	DocumentType() domain.DocumentType
	Sections() (RecordSections, error)
}

// FileInput carries a source document submitted for processing.
type FileInput struct {
	Name        string
	Extension   string
	ContentType string
	Size        int64
	Content     []byte
}

// ProcessOptions tunes a processing request.
type ProcessOptions struct {
	ValidateData bool
}

// StepOutput is the raw JSON-shaped payload produced by one extraction step.
type StepOutput struct {
	Ordinal int             `json:"ordinal"`
	Payload json.RawMessage `json:"payload"`
}

// ProcessingOutcome is returned to the caller for every processing request.
// File-gate failures populate Error/ErrorCode instead of being returned as Go errors.
type ProcessingOutcome struct {
	Success      bool                     `json:"success"`
	DocumentType domain.DocumentType      `json:"document_type"`
	Data         CanonicalRecord          `json:"data,omitempty"`
	Steps        []domain.ProcessingStep  `json:"steps,omitempty"`
	Error        string                   `json:"error,omitempty"`
	ErrorCode    domain.ErrorCode         `json:"error_code,omitempty"`
	Validation   *domain.ValidationResult `json:"validation,omitempty"`
	RawOutputs   []StepOutput             `json:"-"`
}

// Processor is the capability every document-type variant exposes.
type Processor interface {
	DocumentType() domain.DocumentType
	Metadata() domain.TypeMetadata
	// Process gates the file and either returns a direct result (single-step types with an
	// extractor) or the step plan for the extraction collaborator.
	Process(ctx context.Context, file FileInput, opts ProcessOptions) *ProcessingOutcome
	// Assemble combines raw step outputs into a record and optionally validates it.
	Assemble(ctx context.Context, outputs []StepOutput, opts ProcessOptions) *ProcessingOutcome
	// Decode rebuilds a typed record from persisted sections.
	Decode(sections RecordSections) (CanonicalRecord, error)
	Validate(ctx context.Context, record CanonicalRecord) domain.ValidationResult
	Steps() []domain.ProcessingStep
	PromptForStep(n int, priorOutput json.RawMessage) (string, error)
}
