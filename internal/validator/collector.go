package validator

import (
	"fmt"

	"comex/internal/domain"
)

// Collector accumulates findings for one record and builds the ValidationResult.
// Business-data problems are always recorded here, never returned as Go errors.
type Collector struct {
	errs  []domain.ValidationError
	warns []domain.ValidationWarning
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Error records a blocking finding.
func (c *Collector) Error(field string, code domain.ErrorCode, format string, args ...any) {
	c.errs = append(c.errs, domain.ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

// Warn records an advisory finding with a remediation suggestion.
func (c *Collector) Warn(field, suggestion, format string, args ...any) {
	c.warns = append(c.warns, domain.ValidationWarning{
		Field:      field,
		Message:    fmt.Sprintf(format, args...),
		Suggestion: suggestion,
	})
}

// AddErrors appends findings produced elsewhere (e.g. during step combination).
func (c *Collector) AddErrors(errs ...domain.ValidationError) {
	c.errs = append(c.errs, errs...)
}

// HasErrors reports whether any blocking finding was recorded.
func (c *Collector) HasErrors() bool {
	return len(c.errs) > 0
}

// Result builds the ValidationResult. IsValid is derived from the error count.
func (c *Collector) Result() domain.ValidationResult {
	errs := make([]domain.ValidationError, len(c.errs))
	copy(errs, c.errs)
	warns := make([]domain.ValidationWarning, len(c.warns))
	copy(warns, c.warns)
	return domain.ValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
}

// Merge combines a previously built result with extra errors, keeping IsValid consistent.
func Merge(res domain.ValidationResult, extra []domain.ValidationError) domain.ValidationResult {
	if len(extra) == 0 {
		return res
	}
	c := &Collector{}
	c.AddErrors(extra...)
	c.AddErrors(res.Errors...)
	c.warns = append(c.warns, res.Warnings...)
	return c.Result()
}
