package port

import (
	"context"

	"github.com/google/uuid"

	"comex/internal/domain"
)

// DocumentValidatedEvent is published after a record has been handed to persistence.
type DocumentValidatedEvent struct {
	DocumentID   uuid.UUID               `json:"document_id"`
	DocumentType domain.DocumentType     `json:"document_type"`
	ContentHash  string                  `json:"content_hash"`
	Status       domain.ValidationStatus `json:"status"`
	ErrorCount   int                     `json:"error_count"`
	WarningCount int                     `json:"warning_count"`
}

// EventPublisher abstracts the messaging collaborator.
type EventPublisher interface {
	PublishValidated(ctx context.Context, event DocumentValidatedEvent) error
}
