package metadata

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// ImageExtractor decodes only the image header for format and dimensions.
type ImageExtractor struct {
	suffixes map[string]bool
}

func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{suffixes: suffixSet("png", "jpg", "jpeg", "gif")}
}

func (e *ImageExtractor) Name() string { return "image" }

func (e *ImageExtractor) Supports(path string) bool {
	return e.suffixes[ExtensionOf(path)]
}

func (e *ImageExtractor) Extract(path string, maxPreview int) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}

	return &FileMetadata{
		Path:      path,
		Extension: ExtensionOf(path),
		Size:      info.Size(),
		Fields: map[string]string{
			FieldDescription: fmt.Sprintf("%s image, %dx%d pixels", format, cfg.Width, cfg.Height),
		},
		ContentAware: true,
	}, nil
}
