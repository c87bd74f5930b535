package config

import "sort"

// categoryExtensions maps scan-category shorthands to extension allow-lists.
var categoryExtensions = map[string][]string{
	"docs":   {"txt", "md", "markdown", "pdf", "doc", "docx", "rtf", "odt", "log"},
	"data":   {"csv", "tsv", "json", "yaml", "yml", "xml", "xls", "xlsx", "parquet"},
	"images": {"png", "jpg", "jpeg", "gif", "bmp", "webp", "heic", "tiff", "svg"},
	"audio":  {"mp3", "wav", "flac", "m4a", "aac", "ogg"},
	"video":  {"mp4", "mov", "avi", "mkv", "webm"},
	"code":   {"go", "py", "js", "ts", "rb", "rs", "java", "c", "cpp", "h", "sh", "sql", "html", "css"},
}

// CategoryNames lists the accepted shorthand names, sorted.
func CategoryNames() []string {
	names := make([]string, 0, len(categoryExtensions))
	for name := range categoryExtensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandCategories resolves shorthand names into a merged extension list and
// appends any explicitly listed extensions. Unknown names are ignored here;
// Validate rejects them up front.
func ExpandCategories(categories, extensions []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(ext string) {
		if ext != "" && !seen[ext] {
			seen[ext] = true
			out = append(out, ext)
		}
	}
	for _, cat := range categories {
		for _, ext := range categoryExtensions[cat] {
			add(ext)
		}
	}
	for _, ext := range extensions {
		add(ext)
	}
	return out
}
