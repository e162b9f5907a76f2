package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TypeMetadata describes a registered document type. Read-only after registration.
type TypeMetadata struct {
	Tag                     DocumentType `json:"tag"`
	HumanLabel              string       `json:"human_label"`
	Description             string       `json:"description"`
	SupportedFileExtensions []string     `json:"supported_file_extensions"`
	IsMultiStep             bool         `json:"is_multi_step"`
}

// SupportsExtension does a case-insensitive membership check.
func (m TypeMetadata) SupportsExtension(ext string) bool {
	ext = NormalizeExtension(ext)
	if ext == "" {
		return false
	}
	for _, e := range m.SupportedFileExtensions {
		if NormalizeExtension(e) == ext {
			return true
		}
	}
	return false
}

// ProcessingStep is one ordered extraction pass declared by a document type.
type ProcessingStep struct {
	Ordinal            int     `json:"ordinal" yaml:"ordinal"`
	Name               string  `json:"name" yaml:"name"`
	Description        string  `json:"description" yaml:"description"`
	PromptDescriptor   string  `json:"prompt_descriptor" yaml:"prompt"`
	ExpectsPriorOutput bool    `json:"expects_prior_output" yaml:"expects_prior_output"`
	Target             Section `json:"target" yaml:"target"`
	// TargetField routes a header-targeted step into a nested header key instead of the header root.
	TargetField string `json:"target_field,omitempty" yaml:"target_field"`
}

// Document is the persisted, flattened form of a validated CanonicalRecord.
type Document struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	DocumentType     DocumentType     `db:"document_type" json:"document_type"`
	ContentHash      string           `db:"content_hash" json:"content_hash"`
	Header           json.RawMessage  `db:"header" json:"header"`
	Items            json.RawMessage  `db:"items" json:"items"`
	TaxBreakdown     json.RawMessage  `db:"tax_breakdown" json:"tax_breakdown"`
	ValidationStatus ValidationStatus `db:"validation_status" json:"validation_status"`
	ValidationResult json.RawMessage  `db:"validation_result" json:"validation_result"`
	ErrorCount       int              `db:"error_count" json:"error_count"`
	WarningCount     int              `db:"warning_count" json:"warning_count"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}
