package csvexport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/domain"
)

func readAll(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func storedDoc(t *testing.T, res *domain.ValidationResult) domain.Document {
	t.Helper()
	doc := domain.Document{
		ID:               uuid.MustParse("6f1c2c1e-0000-4000-8000-000000000001"),
		DocumentType:     domain.DocumentTypePackingList,
		ContentHash:      "abc",
		ValidationStatus: domain.ValidationStatusInvalid,
		CreatedAt:        time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC),
	}
	if res != nil {
		raw, err := json.Marshal(res)
		require.NoError(t, err)
		doc.ValidationResult = raw
		doc.ErrorCount = len(res.Errors)
		doc.WarningCount = len(res.Warnings)
	}
	return doc
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	rows := readAll(t, &buf)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 12)
	assert.Equal(t, "Document ID", rows[0][0])
	assert.Equal(t, "Created At", rows[0][11])
}

func TestWriteDocuments_OneRowPerFinding(t *testing.T) {
	doc := storedDoc(t, &domain.ValidationResult{
		IsValid: false,
		Errors: []domain.ValidationError{
			{Field: "consistency.packages.header_containers", Code: domain.CodePackageTotalMismatch, Message: "300 vs 290"},
		},
		Warnings: []domain.ValidationWarning{
			{Field: "containers[1].number", Message: "duplicate container", Suggestion: "check the extraction"},
		},
	})

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteDocuments([]domain.Document{doc}))
	w.Flush()

	rows := readAll(t, &buf)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"6f1c2c1e-0000-4000-8000-000000000001", "PACKING_LIST", "abc", "invalid", "1", "1",
		"error", "consistency.packages.header_containers", "PACKAGE_TOTAL_MISMATCH", "300 vs 290", "",
		"2024-03-12T10:00:00Z",
	}, rows[0])
	assert.Equal(t, "warning", rows[1][6])
	assert.Equal(t, "", rows[1][8])
	assert.Equal(t, "check the extraction", rows[1][10])
}

func TestWriteDocuments_NoFindings(t *testing.T) {
	doc := storedDoc(t, &domain.ValidationResult{IsValid: true})
	doc.ValidationStatus = domain.ValidationStatusValid

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteDocuments([]domain.Document{doc}))
	w.Flush()

	rows := readAll(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, "valid", rows[0][3])
	assert.Empty(t, rows[0][6])
}

func TestWriteDocuments_MalformedResult(t *testing.T) {
	doc := storedDoc(t, nil)
	doc.ValidationResult = json.RawMessage(`{not json`)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteDocuments([]domain.Document{doc}))
	w.Flush()

	rows := readAll(t, &buf)
	require.Len(t, rows, 1)
	assert.Equal(t, "abc", rows[0][2])
	assert.Empty(t, rows[0][7])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Packing List", "Packing_List"},
		{"special chars", "DI 24/0012345-6 (import)", "DI_24_0012345-6_import"},
		{"unicode", "Declaração Importação", "Declara_o_Importa_o"},
		{"hyphens and underscores preserved", "bill-of_lading", "bill-of_lading"},
		{"consecutive underscores collapsed", "cash___statement", "cash_statement"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{
			"long name truncated",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-extra",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrs",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "packing_list_2024-03-12.csv", BuildFilename("PACKING_LIST", now))
}
