package llm

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"tidy/internal/metadata"
	"tidy/internal/util"
)

var (
	hexBlobRe      = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	tokenLikeRe    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	genericLabelRe = regexp.MustCompile(`(?i)^(img|dsc|scan|screenshot|document|download|file|image|photo|picture)[-_ .]*\d+$`)
)

// Heuristic is the deterministic terminal backend. It makes no external
// calls and never fails, which is what guarantees the fallback chain always
// terminates with a result.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Available() bool { return true }

func (h *Heuristic) SuggestRename(_ context.Context, meta *metadata.FileMetadata, currentName, _ string) (RenameResult, error) {
	var parts []string
	var used []string
	if title := meta.Field(metadata.FieldTitle); title != "" {
		parts = append(parts, title)
		used = append(used, "used title")
	}
	if keywords := meta.Field(metadata.FieldKeywords); keywords != "" {
		words := strings.FieldsFunc(keywords, func(r rune) bool { return r == ',' || r == ';' })
		if len(words) > 2 {
			words = words[:2]
		}
		for i := range words {
			words[i] = strings.TrimSpace(words[i])
		}
		parts = append(parts, strings.Join(words, "-"))
		used = append(used, "used keywords")
	}
	if len(parts) == 0 {
		if desc := meta.Description(); desc != "" {
			words := strings.Fields(desc)
			if len(words) > 12 {
				words = words[:12]
			}
			parts = append(parts, strings.Join(words, " "))
			used = append(used, "used description")
		}
	}
	if len(parts) == 0 {
		stem := stemOf(currentName)
		if stem != "" && !hexBlobRe.MatchString(stem) {
			parts = append(parts, stem)
			used = append(used, "used original stem")
		} else {
			parts = append(parts, "file")
			used = append(used, "no usable metadata")
		}
	}
	name := util.SanitizeFilename(strings.Join(parts, "-"))
	return RenameResult{NewName: name, Reason: strings.Join(used, "; ")}, nil
}

func (h *Heuristic) SuggestKeep(_ context.Context, _ *metadata.FileMetadata, currentName, _ string) (KeepResult, error) {
	stem := stemOf(currentName)
	switch {
	case isUUIDLike(stem):
		return KeepResult{KeepOriginal: false, Reason: "original looks like a UUID"}, nil
	case hexBlobRe.MatchString(stem):
		return KeepResult{KeepOriginal: false, Reason: "original looks like a hex hash"}, nil
	case genericLabelRe.MatchString(stem):
		return KeepResult{KeepOriginal: false, Reason: "original is a generic camera or download label"}, nil
	case len(stem) >= 40 && tokenLikeRe.MatchString(stem):
		return KeepResult{KeepOriginal: false, Reason: "original is long and token-like"}, nil
	default:
		return KeepResult{KeepOriginal: true, Reason: "original may contain useful context"}, nil
	}
}

func (h *Heuristic) SuggestCategories(_ context.Context, items []BatchItem, _ string) (map[int]Category, map[int]string, error) {
	categories := make(map[int]Category, len(items))
	reasons := make(map[int]string, len(items))
	for _, item := range items {
		categories[item.Index] = CategoryForExtension(item.Ext)
		reasons[item.Index] = "extension ." + strings.ToLower(item.Ext) + " bucket"
	}
	return categories, reasons, nil
}

func stemOf(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

func isUUIDLike(stem string) bool {
	_, err := uuid.Parse(stem)
	return err == nil && len(stem) == 36
}

var _ Client = (*Heuristic)(nil)
