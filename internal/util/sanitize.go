package util

import (
	"strings"
	"unicode"
)

// MaxFilenameChars caps sanitized names well below common filesystem limits.
const MaxFilenameChars = 256

const allowedFilenameChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.-_"

// SanitizeFilename restricts a proposed filename to a safe character set:
// whitespace and disallowed characters become hyphens, doubled separators are
// collapsed, and the result is trimmed and capped at MaxFilenameChars. An
// empty result falls back to "file" so callers always get a usable name.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, ch := range name {
		switch {
		case unicode.IsSpace(ch):
			b.WriteByte('-')
		case strings.ContainsRune(allowedFilenameChars, ch):
			b.WriteRune(ch)
		default:
			b.WriteByte('-')
		}
	}
	cleaned := b.String()
	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}
	for strings.Contains(cleaned, "__") {
		cleaned = strings.ReplaceAll(cleaned, "__", "_")
	}
	cleaned = strings.Trim(cleaned, "-_.")
	if len(cleaned) > MaxFilenameChars {
		cleaned = cleaned[:MaxFilenameChars]
		cleaned = strings.Trim(cleaned, "-_.")
	}
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// Shorten collapses whitespace and truncates text for single-line display.
func Shorten(text string, limit int) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if len(cleaned) <= limit {
		return cleaned
	}
	if limit <= 3 {
		return cleaned[:limit]
	}
	return cleaned[:limit-3] + "..."
}
