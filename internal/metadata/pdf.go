package metadata

import (
	"bytes"
	"os"
	"os/exec"

	"tidy/internal/util"
)

// PDFExtractor shells out to pdftotext for the first pages of a PDF. When the
// converter is not installed it fails with a distinct missing-dependency
// reason instead of returning empty content.
type PDFExtractor struct {
	// converter is the binary name, overridable in tests.
	converter string
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{converter: "pdftotext"}
}

func (e *PDFExtractor) Name() string { return "pdf" }

func (e *PDFExtractor) Supports(path string) bool {
	return ExtensionOf(path) == "pdf"
}

func (e *PDFExtractor) Extract(path string, maxPreview int) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	bin, err := exec.LookPath(e.converter)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonMissingDependency, Detail: e.converter + " not found in PATH"}
	}

	var out bytes.Buffer
	cmd := exec.Command(bin, "-q", "-l", "2", path, "-")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}

	meta := &FileMetadata{
		Path:         path,
		Extension:    "pdf",
		Size:         info.Size(),
		Fields:       map[string]string{},
		ContentAware: true,
	}
	if text := util.Shorten(util.CleanContent(out.Bytes()), maxPreview); text != "" {
		meta.Fields[FieldPreview] = text
	}
	return meta, nil
}
