package port

import (
	"context"

	"comex/internal/domain"
)

// StepArchive keeps the raw step outputs a record was assembled from, addressed by document type,
// content hash and step ordinal.
type StepArchive interface {
	PutStep(ctx context.Context, docType domain.DocumentType, contentHash string, out StepOutput) error
	// GetStep returns domain.ErrStepNotArchived when nothing is stored under the address.
	GetStep(ctx context.Context, docType domain.DocumentType, contentHash string, ordinal int) (StepOutput, error)
}
