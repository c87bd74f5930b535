package metadata

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// DefaultMaxPreview bounds how much text an extractor keeps as preview.
const DefaultMaxPreview = 1800

// Extractor produces a FileMetadata record for files it supports.
type Extractor interface {
	Name() string
	Supports(path string) bool
	Extract(path string, maxPreview int) (*FileMetadata, error)
}

// Registry holds an ordered list of extractors. Dispatch order is the
// registration order: the first extractor whose Supports matches wins, which
// keeps precedence an explicit, testable property rather than a map lookup.
type Registry struct {
	extractors []Extractor
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an extractor. Earlier registrations take precedence.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Extractors returns the registered extractors in dispatch order.
func (r *Registry) Extractors() []Extractor {
	out := make([]Extractor, len(r.extractors))
	copy(out, r.extractors)
	return out
}

// Validate reports configuration-level impossibilities.
func (r *Registry) Validate() error {
	if len(r.extractors) == 0 {
		return fmt.Errorf("extractor registry is empty")
	}
	return nil
}

// ExtractorFor returns the first extractor that supports the path, or an
// ExtractionError with an unsupported-extension reason.
func (r *Registry) ExtractorFor(path string) (Extractor, error) {
	for _, e := range r.extractors {
		if e.Supports(path) {
			return e, nil
		}
	}
	ext := ExtensionOf(path)
	if ext == "" {
		ext = "none"
	}
	return nil, &ExtractionError{Path: path, Reason: ReasonUnsupported, Detail: "." + ext}
}

// Extract dispatches the path to exactly one extractor and returns its
// metadata record. Unsupported files are rejected here, before any bytes are
// read or any model call is made.
func (r *Registry) Extract(path string, maxPreview int) (*FileMetadata, error) {
	e, err := r.ExtractorFor(path)
	if err != nil {
		return nil, err
	}
	if maxPreview <= 0 {
		maxPreview = DefaultMaxPreview
	}
	meta, err := e.Extract(path, maxPreview)
	if err != nil {
		if _, ok := err.(*ExtractionError); ok {
			return nil, err
		}
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	meta.Extractor = e.Name()
	log.Debugf("extracted %s via %s (content-aware=%v)", path, e.Name(), meta.ContentAware)
	return meta, nil
}

// DefaultRegistry builds the standard extractor set. The generic extractor is
// registered last so it only catches files nothing else claimed.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewTextExtractor())
	r.Register(NewHTMLExtractor())
	r.Register(NewCSVExtractor())
	r.Register(NewCodeExtractor())
	r.Register(NewPDFExtractor())
	r.Register(NewImageExtractor())
	r.Register(NewGenericExtractor())
	return r
}
