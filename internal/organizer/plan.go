package organizer

import (
	"path/filepath"
	"strings"

	"tidy/internal/llm"
	"tidy/internal/util"
)

// Record is one file's journey through both planning phases. SkipReason set
// during Phase 1 excludes the file from Phase 2 and from apply.
type Record struct {
	Index          int
	Source         string
	Name           string
	Ext            string
	NewName        string
	KeepOriginal   bool
	RenameReason   string
	Category       llm.Category
	CategoryReason string
	Extractor      string
	Description    string
	Target         string
	SkipReason     string
}

// Plan holds the finished two-phase plan for one run.
type Plan struct {
	Records    []Record
	TargetRoot string
}

// Active returns records that survived Phase 1.
func (p *Plan) Active() []Record {
	out := make([]Record, 0, len(p.Records))
	for _, r := range p.Records {
		if r.SkipReason == "" {
			out = append(out, r)
		}
	}
	return out
}

// Moves converts active records into apply instructions.
func (p *Plan) Moves() []Move {
	var moves []Move
	for _, r := range p.Records {
		if r.SkipReason != "" {
			continue
		}
		moves = append(moves, Move{
			Source:   r.Source,
			Target:   r.Target,
			Category: string(r.Category),
			Reason:   r.RenameReason,
		})
	}
	return moves
}

// normalizeNewName cleans a model-proposed name: strips any echoed copy of the
// current filename, drops a duplicated extension, and sanitizes the rest into
// a bare stem.
func normalizeNewName(proposed, currentName, ext string) string {
	cleaned := strings.TrimSpace(proposed)

	// Some models prepend "currentname ->" or echo the name verbatim.
	if idx := strings.Index(cleaned, "->"); idx >= 0 {
		cleaned = strings.TrimSpace(cleaned[idx+2:])
	}
	currentStem := strings.TrimSuffix(currentName, filepath.Ext(currentName))
	if strings.EqualFold(strings.TrimSpace(cleaned), currentName) {
		cleaned = currentStem
	}

	// Drop a trailing extension that matches the file's real one.
	if ext != "" {
		lower := strings.ToLower(cleaned)
		suffix := "." + strings.ToLower(ext)
		for strings.HasSuffix(lower, suffix) {
			cleaned = cleaned[:len(cleaned)-len(suffix)]
			lower = strings.ToLower(cleaned)
		}
	}
	return util.SanitizeFilename(cleaned)
}

// finalStem combines the keep-original decision with the proposed stem:
// keeping the original prefixes it, so "IMG_1234" + "beach-sunset" becomes
// "IMG_1234_beach-sunset".
func finalStem(currentName, newStem string, keepOriginal bool) string {
	if !keepOriginal {
		return newStem
	}
	currentStem := util.SanitizeFilename(strings.TrimSuffix(currentName, filepath.Ext(currentName)))
	if currentStem == "" || currentStem == "file" || strings.EqualFold(currentStem, newStem) {
		return newStem
	}
	return util.SanitizeFilename(currentStem + "_" + newStem)
}

// resolveTarget places a record under <targetRoot>/<Category>/<stem>.<ext>.
func resolveTarget(targetRoot string, category llm.Category, stem, ext string) string {
	name := stem
	if ext != "" {
		name += "." + strings.ToLower(ext)
	}
	return filepath.Join(targetRoot, string(category), name)
}
