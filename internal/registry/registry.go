// Package registry maps document type tags to their processors and metadata.
package registry

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"comex/internal/domain"
	"comex/internal/port"
)

// Registry is the single source of truth for document type behavior. It is built once at startup and
// passed to callers; reads are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	processors map[domain.DocumentType]port.Processor
	metadata   map[domain.DocumentType]domain.TypeMetadata
	order      []domain.DocumentType
	log        *zap.Logger
}

// New creates an empty Registry holding the default metadata of every known tag.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{log: log}
	r.resetLocked()
	return r
}

// Register binds a processor to tag. The processor must report the same tag.
// Registering a tag again replaces the processor and keeps its original position.
func (r *Registry) Register(tag domain.DocumentType, p port.Processor) error {
	if p == nil || p.DocumentType() != tag {
		got := domain.DocumentType("<nil>")
		if p != nil {
			got = p.DocumentType()
		}
		return fmt.Errorf("registry.Register %s (processor reports %s): %w", tag, got, domain.ErrTypeMismatch)
	}
	meta := p.Metadata()

	r.mu.Lock()
	_, replaced := r.processors[tag]
	r.processors[tag] = p
	r.metadata[tag] = meta
	if !replaced {
		r.order = append(r.order, tag)
	}
	r.mu.Unlock()

	r.log.Info("document type registered",
		zap.String("document_type", string(tag)),
		zap.String("label", meta.HumanLabel),
		zap.Bool("multi_step", meta.IsMultiStep),
		zap.Bool("replaced", replaced),
	)
	return nil
}

// Processor returns the processor for tag.
func (r *Registry) Processor(tag domain.DocumentType) (port.Processor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.processors[tag]
	if !ok {
		return nil, fmt.Errorf("registry.Processor %s: %w", tag, domain.ErrNotRegistered)
	}
	return p, nil
}

// TypeInfo returns the metadata for tag: the registered processor's, or the default for a known tag.
func (r *Registry) TypeInfo(tag domain.DocumentType) (domain.TypeMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metadata[tag]
	if !ok {
		return domain.TypeMetadata{}, fmt.Errorf("registry.TypeInfo %s: %w", tag, domain.ErrNotRegistered)
	}
	return copyMetadata(m), nil
}

// AllTypeInfos returns a snapshot of registered metadata in registration order.
func (r *Registry) AllTypeInfos() []domain.TypeMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TypeMetadata, 0, len(r.order))
	for _, tag := range r.order {
		out = append(out, copyMetadata(r.metadata[tag]))
	}
	return out
}

// IsFormatSupported reports whether the registered processor for tag accepts ext, case-insensitively.
func (r *Registry) IsFormatSupported(tag domain.DocumentType, ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.processors[tag]; !ok {
		return false
	}
	return r.metadata[tag].SupportsExtension(ext)
}

// IsRegistered reports whether tag has a processor.
func (r *Registry) IsRegistered(tag domain.DocumentType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.processors[tag]
	return ok
}

// Reset clears registrations and restores default metadata. Intended for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.resetLocked()
	r.mu.Unlock()
	r.log.Info("registry reset")
}

func (r *Registry) resetLocked() {
	r.processors = make(map[domain.DocumentType]port.Processor, len(domain.AllDocumentTypes))
	r.metadata = make(map[domain.DocumentType]domain.TypeMetadata, len(domain.AllDocumentTypes))
	r.order = nil
	for _, tag := range domain.AllDocumentTypes {
		if m, ok := domain.DefaultTypeMetadata(tag); ok {
			r.metadata[tag] = m
		}
	}
}

func copyMetadata(m domain.TypeMetadata) domain.TypeMetadata {
	m.SupportedFileExtensions = append([]string(nil), m.SupportedFileExtensions...)
	return m
}
