package metadata

import (
	"fmt"
	"os"
	"time"
)

// GenericExtractor is the registry's final fallback: it matches everything
// and records filesystem metadata only, without reading file bytes.
type GenericExtractor struct{}

func NewGenericExtractor() *GenericExtractor { return &GenericExtractor{} }

func (e *GenericExtractor) Name() string { return "generic" }

func (e *GenericExtractor) Supports(string) bool { return true }

func (e *GenericExtractor) Extract(path string, _ int) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	return &FileMetadata{
		Path:      path,
		Extension: ExtensionOf(path),
		Size:      info.Size(),
		Fields: map[string]string{
			"modified": info.ModTime().Format(time.RFC3339),
			"size":     fmt.Sprintf("%d bytes", info.Size()),
		},
		ContentAware: false,
	}, nil
}
