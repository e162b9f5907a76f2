package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/observability/metrics"
	"comex/internal/port"
)

const revalidateBatchSize = 100

// ProcessorSource resolves the processor registered for a document type.
type ProcessorSource interface {
	Processor(tag domain.DocumentType) (port.Processor, error)
}

// SaveInput is the DTO for persisting a processed record.
type SaveInput struct {
	Outcome     *port.ProcessingOutcome
	ContentHash string
	// Force persists records whose validation failed.
	Force bool
}

// RevalidateSummary counts what a Revalidate pass did.
type RevalidateSummary struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

// DocumentService runs processing requests against the registry and hands validated records to persistence.
type DocumentService interface {
	ProcessRaw(ctx context.Context, docType domain.DocumentType, outputs []port.StepOutput, opts port.ProcessOptions) (*port.ProcessingOutcome, error)
	ProcessFile(ctx context.Context, docType domain.DocumentType, file port.FileInput, opts port.ProcessOptions) (*port.ProcessingOutcome, error)
	Save(ctx context.Context, input *SaveInput) (*domain.Document, error)
	Revalidate(ctx context.Context, docType domain.DocumentType) (*RevalidateSummary, error)
	Reassemble(ctx context.Context, docType domain.DocumentType, contentHash string, opts port.ProcessOptions) (*port.ProcessingOutcome, error)
}

// Deps groups the collaborators of the document service. Archive, Publisher, Extractor and Metrics
// are optional.
type Deps struct {
	Processors ProcessorSource
	Repo       port.DocumentRepository
	Archive    port.StepArchive
	Publisher  port.EventPublisher
	Extractor  port.StepExtractor
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

type documentService struct {
	processors ProcessorSource
	repo       port.DocumentRepository
	archive    port.StepArchive
	publisher  port.EventPublisher
	extractor  port.StepExtractor
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(deps Deps) DocumentService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &documentService{
		processors: deps.Processors,
		repo:       deps.Repo,
		archive:    deps.Archive,
		publisher:  deps.Publisher,
		extractor:  deps.Extractor,
		metrics:    deps.Metrics,
		log:        log,
		now:        time.Now,
	}
}

// ProcessRaw combines step outputs produced elsewhere into a validated record.
func (s *documentService) ProcessRaw(ctx context.Context, docType domain.DocumentType, outputs []port.StepOutput, opts port.ProcessOptions) (*port.ProcessingOutcome, error) {
	p, err := s.processors.Processor(docType)
	if err != nil {
		return nil, fmt.Errorf("documentService.ProcessRaw: %w", err)
	}
	start := s.now()
	out := p.Assemble(ctx, outputs, opts)
	s.observe(out, start)
	return out, nil
}

// ProcessFile gates the file and, when an extractor is configured, runs every step before assembling.
// Without an extractor a multi-step type returns its plan for the caller to execute.
func (s *documentService) ProcessFile(ctx context.Context, docType domain.DocumentType, file port.FileInput, opts port.ProcessOptions) (*port.ProcessingOutcome, error) {
	p, err := s.processors.Processor(docType)
	if err != nil {
		return nil, fmt.Errorf("documentService.ProcessFile: %w", err)
	}
	start := s.now()
	out := p.Process(ctx, file, opts)
	if !out.Success || out.Data != nil || s.extractor == nil || len(out.Steps) == 0 {
		s.observe(out, start)
		return out, nil
	}

	outputs, err := combiner.Run(ctx, s.extractor, combiner.Plan{
		DocumentType: docType,
		Steps:        out.Steps,
		Prompt:       p.PromptForStep,
	}, file)
	if err != nil {
		out = &port.ProcessingOutcome{
			Success:      false,
			DocumentType: docType,
			Error:        err.Error(),
			RawOutputs:   outputs,
		}
		s.observe(out, start)
		return out, nil
	}
	out = p.Assemble(ctx, outputs, opts)
	s.observe(out, start)
	return out, nil
}

// Save archives the raw step outputs, upserts the flattened record and announces it.
// Invalid records are refused unless Force is set.
func (s *documentService) Save(ctx context.Context, input *SaveInput) (*domain.Document, error) {
	out := input.Outcome
	if out == nil || !out.Success || out.Data == nil {
		return nil, fmt.Errorf("documentService.Save: no record to save: %w", domain.ErrInvalidRecord)
	}
	if input.ContentHash == "" {
		return nil, fmt.Errorf("documentService.Save: %w", domain.ErrMissingHash)
	}
	if out.Validation != nil && !out.Validation.IsValid && !input.Force {
		return nil, fmt.Errorf("documentService.Save: %d validation errors: %w", len(out.Validation.Errors), domain.ErrInvalidRecord)
	}

	doc, err := ToDocument(out, input.ContentHash)
	if err != nil {
		return nil, fmt.Errorf("documentService.Save: %w", err)
	}

	if s.archive != nil {
		for _, raw := range out.RawOutputs {
			if err := s.archive.PutStep(ctx, out.DocumentType, input.ContentHash, raw); err != nil {
				return nil, fmt.Errorf("documentService.Save: %w", err)
			}
		}
	}

	if err := s.repo.Upsert(ctx, doc); err != nil {
		return nil, fmt.Errorf("documentService.Save: %w", err)
	}

	s.log.Info("document saved",
		zap.String("document_id", doc.ID.String()),
		zap.String("document_type", string(doc.DocumentType)),
		zap.String("content_hash", doc.ContentHash),
		zap.String("status", string(doc.ValidationStatus)),
		zap.Bool("forced", input.Force && doc.ValidationStatus == domain.ValidationStatusInvalid),
	)

	if s.publisher != nil {
		evt := port.DocumentValidatedEvent{
			DocumentID:   doc.ID,
			DocumentType: doc.DocumentType,
			ContentHash:  doc.ContentHash,
			Status:       doc.ValidationStatus,
			ErrorCount:   doc.ErrorCount,
			WarningCount: doc.WarningCount,
		}
		// The row is already stored; a lost event is logged, not returned.
		if err := s.publisher.PublishValidated(ctx, evt); err != nil {
			s.log.Warn("publishing validated event failed",
				zap.String("document_id", doc.ID.String()),
				zap.Error(err),
			)
		}
	}
	return doc, nil
}

// Revalidate rebuilds every stored record of a type and re-runs its validator.
func (s *documentService) Revalidate(ctx context.Context, docType domain.DocumentType) (*RevalidateSummary, error) {
	p, err := s.processors.Processor(docType)
	if err != nil {
		return nil, fmt.Errorf("documentService.Revalidate: %w", err)
	}

	summary := &RevalidateSummary{}
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		docs, _, err := s.repo.ListByType(ctx, docType, offset, revalidateBatchSize)
		if err != nil {
			return summary, fmt.Errorf("documentService.Revalidate: listing at offset %d: %w", offset, err)
		}
		if len(docs) == 0 {
			break
		}

		for i := range docs {
			doc := &docs[i]
			summary.Checked++

			rec, err := p.Decode(port.RecordSections{
				Header:       doc.Header,
				Items:        doc.Items,
				TaxBreakdown: doc.TaxBreakdown,
			})
			if err != nil {
				summary.Skipped++
				s.log.Warn("skipping stored document",
					zap.String("document_id", doc.ID.String()),
					zap.Error(err),
				)
				continue
			}

			res := p.Validate(ctx, rec)
			if err := applyValidation(doc, &res); err != nil {
				return summary, fmt.Errorf("documentService.Revalidate: %w", err)
			}
			if err := s.repo.UpdateValidation(ctx, doc); err != nil {
				return summary, fmt.Errorf("documentService.Revalidate: updating %s: %w", doc.ID, err)
			}
			summary.Updated++
			if !res.IsValid {
				summary.Invalid++
			}
		}

		offset += len(docs)
		if len(docs) < revalidateBatchSize {
			break
		}
	}

	s.log.Info("revalidation finished",
		zap.String("document_type", string(docType)),
		zap.Int("checked", summary.Checked),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("invalid", summary.Invalid),
	)
	return summary, nil
}

// Reassemble re-runs the combiner and validator over the archived raw step outputs of a stored
// document. Steps missing from the archive leave their section empty; an empty archive is an error.
func (s *documentService) Reassemble(ctx context.Context, docType domain.DocumentType, contentHash string, opts port.ProcessOptions) (*port.ProcessingOutcome, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("documentService.Reassemble: %w", domain.ErrNoArchive)
	}
	if contentHash == "" {
		return nil, fmt.Errorf("documentService.Reassemble: %w", domain.ErrMissingHash)
	}
	p, err := s.processors.Processor(docType)
	if err != nil {
		return nil, fmt.Errorf("documentService.Reassemble: %w", err)
	}

	count := len(p.Steps())
	if count == 0 {
		count = 1
	}
	outputs := make([]port.StepOutput, 0, count)
	for n := 1; n <= count; n++ {
		out, err := s.archive.GetStep(ctx, docType, contentHash, n)
		if errors.Is(err, domain.ErrStepNotArchived) {
			s.log.Warn("archived step missing",
				zap.String("document_type", string(docType)),
				zap.String("content_hash", contentHash),
				zap.Int("step", n),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("documentService.Reassemble: %w", err)
		}
		outputs = append(outputs, out)
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("documentService.Reassemble: %s/%s: %w", docType, contentHash, domain.ErrStepNotArchived)
	}

	start := s.now()
	result := p.Assemble(ctx, outputs, opts)
	s.observe(result, start)
	return result, nil
}

func (s *documentService) observe(out *port.ProcessingOutcome, start time.Time) {
	status := "failed"
	if out.Success {
		status = string(StatusOf(out.Validation))
	}
	s.metrics.ObserveOutcome(out.DocumentType, status, out.Validation, s.now().Sub(start))

	fields := []zap.Field{
		zap.String("document_type", string(out.DocumentType)),
		zap.Bool("success", out.Success),
		zap.Int("steps", len(out.Steps)),
	}
	if out.Validation != nil {
		fields = append(fields,
			zap.Int("errors", len(out.Validation.Errors)),
			zap.Int("warnings", len(out.Validation.Warnings)),
		)
	}
	if out.Error != "" {
		fields = append(fields, zap.String("error", out.Error))
	}
	s.log.Info("document processed", fields...)
}

// ToDocument flattens a processed record into the persisted form keyed by the caller's content hash.
func ToDocument(out *port.ProcessingOutcome, contentHash string) (*domain.Document, error) {
	if out == nil || out.Data == nil {
		return nil, domain.ErrInvalidRecord
	}
	sections, err := out.Data.Sections()
	if err != nil {
		return nil, fmt.Errorf("flattening %s record: %w", out.DocumentType, err)
	}
	doc := &domain.Document{
		DocumentType:     out.DocumentType,
		ContentHash:      contentHash,
		Header:           sections.Header,
		Items:            sections.Items,
		TaxBreakdown:     sections.TaxBreakdown,
		ValidationStatus: domain.ValidationStatusPending,
	}
	if out.Validation != nil {
		if err := applyValidation(doc, out.Validation); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// StatusOf summarizes a validation result; nil means the record was not validated.
func StatusOf(res *domain.ValidationResult) domain.ValidationStatus {
	switch {
	case res == nil:
		return domain.ValidationStatusPending
	case !res.IsValid:
		return domain.ValidationStatusInvalid
	case len(res.Warnings) > 0:
		return domain.ValidationStatusWarning
	default:
		return domain.ValidationStatusValid
	}
}

func applyValidation(doc *domain.Document, res *domain.ValidationResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding validation result: %w", err)
	}
	doc.ValidationResult = payload
	doc.ValidationStatus = StatusOf(res)
	doc.ErrorCount = len(res.Errors)
	doc.WarningCount = len(res.Warnings)
	return nil
}
