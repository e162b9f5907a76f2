package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"comex/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Document ID",
	"Document Type",
	"Content Hash",
	"Validation Status",
	"Error Count",
	"Warning Count",
	"Severity",
	"Field",
	"Code",
	"Message",
	"Suggestion",
	"Created At",
}

// Writer wraps csv.Writer for exporting validation findings of stored documents.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDocuments writes one row per finding. A document without findings still gets one row.
func (w *Writer) WriteDocuments(docs []domain.Document) error {
	for i := range docs {
		for _, row := range documentRows(&docs[i]) {
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// documentRows expands a document into rows. An unreadable validation_result is exported as a
// document row without findings.
func documentRows(doc *domain.Document) [][]string {
	base := func() []string {
		row := make([]string, len(columns))
		row[0] = doc.ID.String()
		row[1] = string(doc.DocumentType)
		row[2] = doc.ContentHash
		row[3] = string(doc.ValidationStatus)
		row[4] = strconv.Itoa(doc.ErrorCount)
		row[5] = strconv.Itoa(doc.WarningCount)
		row[11] = doc.CreatedAt.UTC().Format(time.RFC3339)
		return row
	}

	var res domain.ValidationResult
	if len(doc.ValidationResult) == 0 || json.Unmarshal(doc.ValidationResult, &res) != nil {
		return [][]string{base()}
	}

	rows := make([][]string, 0, len(res.Errors)+len(res.Warnings))
	for _, e := range res.Errors {
		row := base()
		row[6] = "error"
		row[7] = e.Field
		row[8] = string(e.Code)
		row[9] = e.Message
		rows = append(rows, row)
	}
	for _, warn := range res.Warnings {
		row := base()
		row[6] = "warning"
		row[7] = warn.Field
		row[9] = warn.Message
		row[10] = warn.Suggestion
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = append(rows, base())
	}
	return rows
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters other than letters, digits, - and _ with _, collapses
// consecutive underscores and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.csv.
func BuildFilename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", strings.ToLower(SanitizeFilename(name)), now.Format("2006-01-02"))
}
