package domain

import "errors"

var (
	ErrNotRegistered     = errors.New("document type not registered")
	ErrTypeMismatch      = errors.New("processor document type does not match registration tag")
	ErrInvalidStep       = errors.New("step ordinal outside declared range")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile         = errors.New("file is empty")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidRecord     = errors.New("record is invalid and cannot be saved")
	ErrNoExtractor       = errors.New("no extractor configured")
	ErrMissingHash       = errors.New("content hash is required")
	ErrStepNotArchived   = errors.New("raw step output not archived")
	ErrNoArchive         = errors.New("no step archive configured")
)
