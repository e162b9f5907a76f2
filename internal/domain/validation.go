package domain

// ErrorCode identifies the class of a validation finding.
type ErrorCode string

// Structural errors.
const (
	CodeMissingHeader        ErrorCode = "MISSING_HEADER"
	CodeMissingItems         ErrorCode = "MISSING_ITEMS"
	CodeInvalidDataStructure ErrorCode = "INVALID_DATA_STRUCTURE"
	CodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"
)

// Format errors.
const (
	CodeInvalidCNPJ        ErrorCode = "INVALID_CNPJ"
	CodeInvalidDINumber    ErrorCode = "INVALID_DI_NUMBER"
	CodeInvalidNCM         ErrorCode = "INVALID_NCM"
	CodeInvalidDate        ErrorCode = "INVALID_DATE"
	CodeUnsupportedFormat  ErrorCode = "UNSUPPORTED_FORMAT"
	CodeInvalidSwift       ErrorCode = "INVALID_SWIFT"
	CodeInvalidCurrency    ErrorCode = "INVALID_CURRENCY"
	CodeInvalidContainer   ErrorCode = "INVALID_CONTAINER"
	CodeInvalidAccessKey   ErrorCode = "INVALID_ACCESS_KEY"
	CodeInvalidNumber      ErrorCode = "INVALID_NUMBER"
	CodeInvalidSequence    ErrorCode = "INVALID_SEQUENCE"
	CodeInvalidReference   ErrorCode = "INVALID_REFERENCE"
	CodeFileTooLarge       ErrorCode = "FILE_TOO_LARGE"
	CodeEmptyFile          ErrorCode = "EMPTY_FILE"
	CodeUnrecognizedFormat ErrorCode = "UNRECOGNIZED_DOCUMENT"
)

// Consistency errors.
const (
	CodeAmountTotalMismatch      ErrorCode = "AMOUNT_TOTAL_MISMATCH"
	CodePackageTotalMismatch     ErrorCode = "PACKAGE_TOTAL_MISMATCH"
	CodeQuantityInconsistency    ErrorCode = "QUANTITY_INCONSISTENCY"
	CodeItemTotalMismatch        ErrorCode = "ITEM_TOTAL_MISMATCH"
	CodeWeightMismatch           ErrorCode = "WEIGHT_MISMATCH"
	CodePackageRangeOverlap      ErrorCode = "PACKAGE_RANGE_OVERLAP"
	CodePackageRangeGap          ErrorCode = "PACKAGE_RANGE_GAP"
	CodeTaxAllocationMismatch    ErrorCode = "TAX_ALLOCATION_MISMATCH"
	CodeTaxTotalMismatch         ErrorCode = "TAX_TOTAL_MISMATCH"
	CodeTaxAmountMismatch        ErrorCode = "TAX_AMOUNT_MISMATCH"
	CodeTotalCompositionMismatch ErrorCode = "TOTAL_COMPOSITION_MISMATCH"
	CodeExchangeAmountMismatch   ErrorCode = "EXCHANGE_AMOUNT_MISMATCH"
)

// ValidationError is a blocking finding.
type ValidationError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
}

// ValidationWarning is an advisory finding; it never affects IsValid.
type ValidationWarning struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationResult is the pure output of validating one CanonicalRecord.
// IsValid always equals len(Errors) == 0.
type ValidationResult struct {
	IsValid  bool                `json:"is_valid"`
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}

// HasError reports whether the result carries an error for the given field and code.
func (r *ValidationResult) HasError(field string, code ErrorCode) bool {
	for _, e := range r.Errors {
		if e.Field == field && e.Code == code {
			return true
		}
	}
	return false
}

// HasCode reports whether any error carries the given code.
func (r *ValidationResult) HasCode(code ErrorCode) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Status summarizes the result for persistence.
func (r *ValidationResult) Status() ValidationStatus {
	switch {
	case len(r.Errors) > 0:
		return ValidationStatusInvalid
	case len(r.Warnings) > 0:
		return ValidationStatusWarning
	default:
		return ValidationStatusValid
	}
}
