package postgres_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/repository/postgres"
)

var documentColumns = []string{
	"id", "document_type", "content_hash", "header", "items", "tax_breakdown",
	"validation_status", "validation_result", "error_count", "warning_count", "created_at", "updated_at",
}

func newDocumentRepo(t *testing.T) (port.DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return postgres.NewDocumentRepo(sqlx.NewDb(db, "pgx")), mock
}

func TestDocumentRepo_UpsertReturnsStoredID(t *testing.T) {
	repo, mock := newDocumentRepo(t)
	stored := uuid.New()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), domain.DocumentTypeCommercialInvoice, "abc123",
			sqlmock.AnyArg(), sqlmock.AnyArg(), []byte("null"),
			domain.ValidationStatusValid, sqlmock.AnyArg(), 0, 1,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(stored.String(), created))

	doc := &domain.Document{
		DocumentType:     domain.DocumentTypeCommercialInvoice,
		ContentHash:      "abc123",
		Header:           json.RawMessage(`{"invoice_number":"1"}`),
		Items:            json.RawMessage(`[]`),
		ValidationStatus: domain.ValidationStatusValid,
		ValidationResult: json.RawMessage(`{"is_valid":true}`),
		WarningCount:     1,
	}
	require.NoError(t, repo.Upsert(context.Background(), doc))
	assert.Equal(t, stored, doc.ID)
	assert.Equal(t, created, doc.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepo_UpsertWrapsErrors(t *testing.T) {
	repo, mock := newDocumentRepo(t)
	mock.ExpectQuery("INSERT INTO documents").WillReturnError(errors.New("connection reset"))

	err := repo.Upsert(context.Background(), &domain.Document{DocumentType: domain.DocumentTypeUnknown})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "documentRepo.Upsert")
}

func TestDocumentRepo_GetByIDNotFound(t *testing.T) {
	repo, mock := newDocumentRepo(t)
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM documents WHERE id = $1")).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepo_GetByHash(t *testing.T) {
	repo, mock := newDocumentRepo(t)
	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM documents WHERE document_type = $1 AND content_hash = $2")).
		WithArgs(domain.DocumentTypeDeclaration, "h1").
		WillReturnRows(sqlmock.NewRows(documentColumns).AddRow(
			id.String(), "DECLARATION", "h1", []byte(`{"di_number":"24/0123456-7"}`), []byte("null"), []byte("null"),
			"warning", []byte(`{"is_valid":true}`), 0, 2, now, now))

	doc, err := repo.GetByHash(context.Background(), domain.DocumentTypeDeclaration, "h1")
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, domain.ValidationStatusWarning, doc.ValidationStatus)
	assert.JSONEq(t, `{"di_number":"24/0123456-7"}`, string(doc.Header))
	assert.Equal(t, "null", string(doc.Items))
}

func TestDocumentRepo_ListByType(t *testing.T) {
	repo, mock := newDocumentRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM documents WHERE document_type = $1")).
		WithArgs(domain.DocumentTypePackingList).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT \\* FROM documents WHERE document_type = \\$1").
		WithArgs(domain.DocumentTypePackingList, 2, 0).
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow(uuid.New().String(), "PACKING_LIST", "a", []byte(`{}`), []byte(`[]`), []byte("null"), "valid", []byte("null"), 0, 0, now, now).
			AddRow(uuid.New().String(), "PACKING_LIST", "b", []byte(`{}`), []byte(`[]`), []byte("null"), "invalid", []byte("null"), 2, 0, now, now))

	docs, total, err := repo.ListByType(context.Background(), domain.DocumentTypePackingList, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[1].ContentHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepo_UpdateValidationNotFound(t *testing.T) {
	repo, mock := newDocumentRepo(t)
	id := uuid.New()
	mock.ExpectExec("UPDATE documents SET").
		WithArgs(domain.ValidationStatusInvalid, sqlmock.AnyArg(), 1, 0, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateValidation(context.Background(), &domain.Document{
		ID:               id,
		ValidationStatus: domain.ValidationStatusInvalid,
		ErrorCount:       1,
	})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
