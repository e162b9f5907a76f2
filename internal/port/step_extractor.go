package port

import (
	"context"
	"encoding/json"

	"comex/internal/domain"
)

// ExtractInput carries what the extraction collaborator needs to run one step.
type ExtractInput struct {
	DocumentType domain.DocumentType
	Step         domain.ProcessingStep
	Prompt       string
	PriorOutput  json.RawMessage
	FileBytes    []byte
	ContentType  string
}

// StepExtractor abstracts the external OCR/LLM service that turns a document into step-wise JSON.
type StepExtractor interface {
	ExtractStep(ctx context.Context, input ExtractInput) (json.RawMessage, error)
}
