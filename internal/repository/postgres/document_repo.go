package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"comex/internal/domain"
	"comex/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

// Upsert inserts a document or, when (document_type, content_hash) already exists, overwrites its
// sections and validation in place. doc.ID and doc.CreatedAt are set to the stored row's values.
func (r *documentRepo) Upsert(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, document_type, content_hash,
		header, items, tax_breakdown,
		validation_status, validation_result, error_count, warning_count,
		created_at, updated_at
	) VALUES (
		$1, $2, $3,
		$4, $5, $6,
		$7, $8, $9, $10,
		$11, $12
	)
	ON CONFLICT (document_type, content_hash) DO UPDATE SET
		header = EXCLUDED.header,
		items = EXCLUDED.items,
		tax_breakdown = EXCLUDED.tax_breakdown,
		validation_status = EXCLUDED.validation_status,
		validation_result = EXCLUDED.validation_result,
		error_count = EXCLUDED.error_count,
		warning_count = EXCLUDED.warning_count,
		updated_at = EXCLUDED.updated_at
	RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		doc.ID, doc.DocumentType, doc.ContentHash,
		jsonValue(doc.Header), jsonValue(doc.Items), jsonValue(doc.TaxBreakdown),
		doc.ValidationStatus, jsonValue(doc.ValidationResult), doc.ErrorCount, doc.WarningCount,
		doc.CreatedAt, doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Upsert: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) GetByHash(ctx context.Context, docType domain.DocumentType, contentHash string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE document_type = $1 AND content_hash = $2", docType, contentHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByHash: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByType(ctx context.Context, docType domain.DocumentType, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM documents WHERE document_type = $1", docType)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByType count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents WHERE document_type = $1
		 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		docType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByType: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) UpdateValidation(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			validation_status = $1, validation_result = $2,
			error_count = $3, warning_count = $4, updated_at = $5
		 WHERE id = $6`,
		doc.ValidationStatus, jsonValue(doc.ValidationResult),
		doc.ErrorCount, doc.WarningCount, doc.UpdatedAt,
		doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateValidation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// nullJSON maps an empty section to SQL NULL.
func jsonValue(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
