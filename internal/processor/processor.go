// Package processor implements the contract shared by every document type: the file gate, the step plan,
// prompt lookup, step combination and delegation to the type's validator.
package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"comex/internal/combiner"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/prompt"
	"comex/internal/validator"
)

// DefaultMaxFileSize is the largest accepted source file (50 MB).
const DefaultMaxFileSize int64 = 50 << 20

// DecodeFunc rebuilds a typed record from flattened sections.
type DecodeFunc func(port.RecordSections) (port.CanonicalRecord, error)

// ValidateFunc runs a type's validator over a record.
type ValidateFunc func(port.CanonicalRecord) domain.ValidationResult

// Definition is everything a document type contributes.
// Single-step types declare exactly one step; it is hidden from Steps() but used by PromptForStep.
type Definition struct {
	Metadata domain.TypeMetadata
	Steps    []domain.ProcessingStep
	Schema   combiner.Schema
	Decode   DecodeFunc
	Validate ValidateFunc
}

// Options carries the collaborators and tunables shared by all types.
type Options struct {
	Extractor   port.StepExtractor
	Catalog     *prompt.Catalog
	MaxFileSize int64
	Tolerances  validator.Tolerances
	NCM         *validator.NCMLookup
}

// WithDefaults fills unset tunables.
func (o Options) WithDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.Tolerances.Amount.IsZero() && o.Tolerances.TaxAllocation.IsZero() && o.Tolerances.Weight.IsZero() {
		o.Tolerances = validator.DefaultTolerances()
	}
	return o
}

// Processor is the shared port.Processor implementation.
type Processor struct {
	def         Definition
	steps       []domain.ProcessingStep
	extractor   port.StepExtractor
	maxFileSize int64
}

var _ port.Processor = (*Processor)(nil)

// New builds a Processor from a type definition.
func New(def Definition, opts Options) *Processor {
	opts = opts.WithDefaults()
	return &Processor{
		def:         def,
		steps:       opts.Catalog.Apply(def.Metadata.Tag, def.Steps),
		extractor:   opts.Extractor,
		maxFileSize: opts.MaxFileSize,
	}
}

func (p *Processor) DocumentType() domain.DocumentType { return p.def.Metadata.Tag }

func (p *Processor) Metadata() domain.TypeMetadata {
	m := p.def.Metadata
	m.SupportedFileExtensions = append([]string(nil), m.SupportedFileExtensions...)
	return m
}

// Steps returns the ordered extraction plan; empty for single-step types.
func (p *Processor) Steps() []domain.ProcessingStep {
	if !p.def.Metadata.IsMultiStep {
		return []domain.ProcessingStep{}
	}
	return append([]domain.ProcessingStep(nil), p.steps...)
}

// Plan returns every declared step, including the implicit one of single-step types.
func (p *Processor) Plan() []domain.ProcessingStep {
	return append([]domain.ProcessingStep(nil), p.steps...)
}

// PromptForStep returns the descriptor for step n. The prior output is appended for steps that expect it.
func (p *Processor) PromptForStep(n int, priorOutput json.RawMessage) (string, error) {
	if n < 1 || n > len(p.steps) {
		return "", fmt.Errorf("%s step %d of %d: %w", p.DocumentType(), n, len(p.steps), domain.ErrInvalidStep)
	}
	step := p.steps[n-1]
	if step.ExpectsPriorOutput && len(priorOutput) > 0 {
		return step.PromptDescriptor + "\n\nPrevious step output:\n" + string(priorOutput), nil
	}
	return step.PromptDescriptor, nil
}

// Process gates the file, then either extracts single-step types directly or hands back the step plan.
func (p *Processor) Process(ctx context.Context, file port.FileInput, opts port.ProcessOptions) *port.ProcessingOutcome {
	if failed := p.gate(file); failed != nil {
		return failed
	}
	if p.def.Metadata.IsMultiStep || p.extractor == nil {
		return &port.ProcessingOutcome{
			Success:      true,
			DocumentType: p.DocumentType(),
			Steps:        p.Plan(),
		}
	}

	outputs, err := combiner.Run(ctx, p.extractor, p.RunPlan(), file)
	if err != nil {
		return &port.ProcessingOutcome{
			Success:      false,
			DocumentType: p.DocumentType(),
			Error:        err.Error(),
		}
	}
	return p.Assemble(ctx, outputs, opts)
}

// RunPlan is the plan handed to combiner.Run.
func (p *Processor) RunPlan() combiner.Plan {
	return combiner.Plan{
		DocumentType: p.DocumentType(),
		Steps:        p.Plan(),
		Prompt:       p.PromptForStep,
	}
}

// Assemble combines step outputs into a typed record and validates it when asked.
// Problems met while combining are reported as validation errors.
func (p *Processor) Assemble(_ context.Context, outputs []port.StepOutput, opts port.ProcessOptions) *port.ProcessingOutcome {
	combined := combiner.Combine(p.steps, outputs, p.def.Schema)

	rec, err := p.def.Decode(combined.Sections)
	if err != nil {
		return &port.ProcessingOutcome{
			Success:      false,
			DocumentType: p.DocumentType(),
			Error:        fmt.Sprintf("decoding %s record: %v", p.DocumentType(), err),
			ErrorCode:    domain.CodeInvalidDataStructure,
			RawOutputs:   outputs,
		}
	}

	out := &port.ProcessingOutcome{
		Success:      true,
		DocumentType: p.DocumentType(),
		Data:         rec,
		RawOutputs:   outputs,
	}
	switch {
	case opts.ValidateData:
		res := validator.Merge(p.def.Validate(rec), combined.Issues)
		out.Validation = &res
	case len(combined.Issues) > 0:
		res := validator.Merge(validator.NewCollector().Result(), combined.Issues)
		out.Validation = &res
	}
	return out
}

// Decode rebuilds a typed record from persisted sections.
func (p *Processor) Decode(sections port.RecordSections) (port.CanonicalRecord, error) {
	return p.def.Decode(sections)
}

// Validate delegates to the type's validator.
func (p *Processor) Validate(_ context.Context, rec port.CanonicalRecord) domain.ValidationResult {
	return p.def.Validate(rec)
}

func (p *Processor) gate(file port.FileInput) *port.ProcessingOutcome {
	fail := func(err error, code domain.ErrorCode) *port.ProcessingOutcome {
		return &port.ProcessingOutcome{
			Success:      false,
			DocumentType: p.DocumentType(),
			Error:        err.Error(),
			ErrorCode:    code,
		}
	}
	ext := file.Extension
	if ext == "" {
		ext = extensionOf(file.Name)
	}
	if !p.def.Metadata.SupportsExtension(ext) {
		return fail(domain.ErrUnsupportedFormat, domain.CodeUnsupportedFormat)
	}
	size := file.Size
	if size == 0 {
		size = int64(len(file.Content))
	}
	if size == 0 {
		return fail(domain.ErrEmptyFile, domain.CodeEmptyFile)
	}
	if size > p.maxFileSize {
		return fail(domain.ErrFileTooLarge, domain.CodeFileTooLarge)
	}
	return nil
}
