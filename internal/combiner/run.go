package combiner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"comex/internal/domain"
	"comex/internal/port"
)

// PromptFunc resolves the opaque descriptor for step n given the prior step's output.
type PromptFunc func(n int, prior json.RawMessage) (string, error)

// Plan is the ordered extraction work for one document.
type Plan struct {
	DocumentType domain.DocumentType
	Steps        []domain.ProcessingStep
	Prompt       PromptFunc
}

// Run executes the plan's steps in ascending ordinal order against the extraction collaborator.
// A step that expects prior output receives the previous step's raw payload.
func Run(ctx context.Context, extractor port.StepExtractor, plan Plan, file port.FileInput) ([]port.StepOutput, error) {
	if extractor == nil {
		return nil, domain.ErrNoExtractor
	}
	steps := append([]domain.ProcessingStep(nil), plan.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Ordinal < steps[j].Ordinal })

	outputs := make([]port.StepOutput, 0, len(steps))
	var prior json.RawMessage
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return outputs, err
		}
		var ctxPrior json.RawMessage
		if step.ExpectsPriorOutput {
			ctxPrior = prior
		}
		descriptor := step.PromptDescriptor
		if plan.Prompt != nil {
			p, err := plan.Prompt(step.Ordinal, ctxPrior)
			if err != nil {
				return outputs, fmt.Errorf("combiner.Run: prompt for step %d: %w", step.Ordinal, err)
			}
			descriptor = p
		}
		payload, err := extractor.ExtractStep(ctx, port.ExtractInput{
			DocumentType: plan.DocumentType,
			Step:         step,
			Prompt:       descriptor,
			PriorOutput:  ctxPrior,
			FileBytes:    file.Content,
			ContentType:  file.ContentType,
		})
		if err != nil {
			return outputs, fmt.Errorf("combiner.Run: step %d (%s): %w", step.Ordinal, step.Name, err)
		}
		outputs = append(outputs, port.StepOutput{Ordinal: step.Ordinal, Payload: payload})
		prior = payload
	}
	return outputs, nil
}
