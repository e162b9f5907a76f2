package processor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/validator"
)

// Typed adapts a validator over a concrete record type. A record of another type yields an
// INVALID_DATA_STRUCTURE result instead of a panic.
func Typed[T port.CanonicalRecord](fn func(T) domain.ValidationResult) ValidateFunc {
	return func(rec port.CanonicalRecord) domain.ValidationResult {
		typed, ok := rec.(T)
		if !ok {
			c := validator.NewCollector()
			c.Error("record", domain.CodeInvalidDataStructure, "unexpected record type %T", rec)
			return c.Result()
		}
		return fn(typed)
	}
}

// IsEmpty reports whether a raw section carries no data.
func IsEmpty(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// DecodeSection unmarshals a raw section into dst. Empty sections leave dst untouched.
func DecodeSection(name string, raw json.RawMessage, dst any) error {
	if IsEmpty(raw) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// EncodeSections flattens record parts; nil parts become empty sections.
func EncodeSections(header, items, taxBreakdown any) (port.RecordSections, error) {
	var s port.RecordSections
	var err error
	if s.Header, err = encode(header); err != nil {
		return s, fmt.Errorf("header: %w", err)
	}
	if s.Items, err = encode(items); err != nil {
		return s, fmt.Errorf("items: %w", err)
	}
	if s.TaxBreakdown, err = encode(taxBreakdown); err != nil {
		return s, fmt.Errorf("tax_breakdown: %w", err)
	}
	return s, nil
}

func encode(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	return b, nil
}

func extensionOf(name string) string {
	return domain.NormalizeExtension(filepath.Ext(name))
}
