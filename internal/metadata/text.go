package metadata

import (
	"os"
	"strings"

	"github.com/neurosnap/sentences"

	"tidy/internal/util"
)

// TextExtractor handles plain-text formats. It reads and interprets file
// bytes, so its records are content-aware.
type TextExtractor struct {
	suffixes  map[string]bool
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{
		suffixes:  suffixSet("txt", "md", "markdown", "log", "text"),
		tokenizer: sentences.NewSentenceTokenizer(nil),
	}
}

func (e *TextExtractor) Name() string { return "text" }

func (e *TextExtractor) Supports(path string) bool {
	return e.suffixes[ExtensionOf(path)]
}

func (e *TextExtractor) Extract(path string, maxPreview int) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	binary, err := util.IsLikelyBinary(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	if binary {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: "binary content in text file"}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	text := util.CleanContent(raw)

	meta := &FileMetadata{
		Path:         path,
		Extension:    ExtensionOf(path),
		Size:         info.Size(),
		Fields:       map[string]string{},
		ContentAware: true,
	}
	if title := markdownTitle(text); title != "" {
		meta.Fields[FieldTitle] = title
	}
	if preview := e.preview(text, maxPreview); preview != "" {
		meta.Fields[FieldPreview] = preview
	}
	return meta, nil
}

// preview keeps whole leading sentences up to maxPreview characters, falling
// back to a plain character cut for text without sentence structure.
func (e *TextExtractor) preview(text string, maxPreview int) string {
	compact := strings.Join(strings.Fields(text), " ")
	if compact == "" {
		return ""
	}
	if len(compact) <= maxPreview {
		return compact
	}
	if e.tokenizer != nil {
		var b strings.Builder
		for _, s := range e.tokenizer.Tokenize(compact) {
			sentence := strings.TrimSpace(s.Text)
			if sentence == "" {
				continue
			}
			if b.Len() > 0 && b.Len()+len(sentence)+1 > maxPreview {
				break
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(sentence)
			if b.Len() >= maxPreview {
				break
			}
		}
		if b.Len() > 0 && b.Len() <= maxPreview {
			return b.String()
		}
	}
	return compact[:maxPreview]
}

func markdownTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
		return ""
	}
	return ""
}

func suffixSet(suffixes ...string) map[string]bool {
	set := make(map[string]bool, len(suffixes))
	for _, s := range suffixes {
		set[s] = true
	}
	return set
}
