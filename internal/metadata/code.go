package metadata

import (
	"os"
	"strings"

	"tidy/internal/util"
)

var codeLanguages = map[string]string{
	"go": "Go", "py": "Python", "js": "JavaScript", "ts": "TypeScript",
	"c": "C", "h": "C header", "cpp": "C++", "cc": "C++", "hpp": "C++ header",
	"java": "Java", "rb": "Ruby", "rs": "Rust", "sh": "shell", "pl": "Perl",
	"php": "PHP", "swift": "Swift", "kt": "Kotlin", "m": "Objective-C",
	"sql": "SQL", "yaml": "YAML", "yml": "YAML", "toml": "TOML", "json": "JSON",
}

// CodeExtractor handles source files: language from the extension, preview
// from the first lines with license boilerplate stripped.
type CodeExtractor struct{}

func NewCodeExtractor() *CodeExtractor { return &CodeExtractor{} }

func (e *CodeExtractor) Name() string { return "code" }

func (e *CodeExtractor) Supports(path string) bool {
	_, ok := codeLanguages[ExtensionOf(path)]
	return ok
}

func (e *CodeExtractor) Extract(path string, maxPreview int) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	text := util.CleanContent(raw)

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
		if len(kept) >= 40 {
			break
		}
	}

	ext := ExtensionOf(path)
	meta := &FileMetadata{
		Path:      path,
		Extension: ext,
		Size:      info.Size(),
		Fields: map[string]string{
			FieldKeywords: codeLanguages[ext],
		},
		ContentAware: true,
	}
	if len(kept) > 0 {
		meta.Fields[FieldPreview] = util.Shorten(strings.Join(kept, " "), maxPreview)
	}
	return meta, nil
}
