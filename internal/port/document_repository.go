package port

import (
	"context"

	"github.com/google/uuid"

	"comex/internal/domain"
)

// DocumentRepository defines the contract for the persistence collaborator.
// Upsert is keyed on (document_type, content_hash) so repeated saves are idempotent.
type DocumentRepository interface {
	Upsert(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	GetByHash(ctx context.Context, docType domain.DocumentType, contentHash string) (*domain.Document, error)
	ListByType(ctx context.Context, docType domain.DocumentType, offset, limit int) ([]domain.Document, int, error)
	UpdateValidation(ctx context.Context, doc *domain.Document) error
}
