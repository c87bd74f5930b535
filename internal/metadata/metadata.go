package metadata

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Well-known field keys produced by extractors. Not every extractor fills
// every field; prompts only include what is present.
const (
	FieldTitle       = "title"
	FieldPreview     = "preview"
	FieldDescription = "description"
	FieldCaption     = "caption"
	FieldKeywords    = "keywords"
)

// FileMetadata is the normalized record one extractor produces for one file.
// It is created once per file and never mutated after extraction.
type FileMetadata struct {
	Path      string
	Extension string // lowercase, without leading dot
	Size      int64
	Fields    map[string]string

	// ContentAware is true when file bytes were actually read and
	// interpreted, false when only filesystem metadata was used.
	ContentAware bool

	// Extractor is the name of the extractor that produced this record.
	Extractor string
}

// Field returns a named field or empty string.
func (m *FileMetadata) Field(key string) string {
	if m.Fields == nil {
		return ""
	}
	return m.Fields[key]
}

// Description returns the best available free-text description of the file,
// preferring an explicit description over preview text and captions.
func (m *FileMetadata) Description() string {
	for _, key := range []string{FieldDescription, FieldPreview, FieldCaption} {
		if v := m.Field(key); v != "" {
			return v
		}
	}
	return ""
}

// ExtractReason classifies why a file could not be extracted.
type ExtractReason string

const (
	ReasonUnsupported       ExtractReason = "unsupported extension"
	ReasonMissingDependency ExtractReason = "missing external dependency"
	ReasonParseFailure      ExtractReason = "parse failure"
)

// ExtractionError reports a rejected or failed extraction. The reason is
// always human readable; rejection is never a silent no-op.
type ExtractionError struct {
	Path   string
	Reason ExtractReason
	Detail string
}

func (e *ExtractionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("extract %s: %s: %s", e.Path, e.Reason, e.Detail)
	}
	return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
}

// ExtensionOf returns the lowercase extension of a path without the dot.
func ExtensionOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
