package llm

import "strings"

// Category is the closed set of folder buckets. No other value may ever
// appear in pipeline output; anything unrecognized normalizes to Other.
type Category string

const (
	CategoryDocument     Category = "Document"
	CategorySpreadsheet  Category = "Spreadsheet"
	CategoryPresentation Category = "Presentation"
	CategoryImage        Category = "Image"
	CategoryAudio        Category = "Audio"
	CategoryVideo        Category = "Video"
	CategoryCode         Category = "Code"
	CategoryData         Category = "Data"
	CategoryProject      Category = "Project"
	CategoryOther        Category = "Other"
)

// AllCategories lists the allowed categories in prompt order.
var AllCategories = []Category{
	CategoryDocument,
	CategorySpreadsheet,
	CategoryPresentation,
	CategoryImage,
	CategoryAudio,
	CategoryVideo,
	CategoryCode,
	CategoryData,
	CategoryProject,
	CategoryOther,
}

var categoryAliases = map[string]Category{
	"doc":          CategoryDocument,
	"docs":         CategoryDocument,
	"document":     CategoryDocument,
	"documents":    CategoryDocument,
	"sheet":        CategorySpreadsheet,
	"spreadsheet":  CategorySpreadsheet,
	"presentation": CategoryPresentation,
	"slides":       CategoryPresentation,
	"img":          CategoryImage,
	"image":        CategoryImage,
	"images":       CategoryImage,
	"photo":        CategoryImage,
	"photos":       CategoryImage,
	"picture":      CategoryImage,
	"pictures":     CategoryImage,
	"audio":        CategoryAudio,
	"music":        CategoryAudio,
	"video":        CategoryVideo,
	"code":         CategoryCode,
	"source":       CategoryCode,
	"data":         CategoryData,
	"dataset":      CategoryData,
	"project":      CategoryProject,
	"other":        CategoryOther,
}

// NormalizeCategory maps free-form model output onto the closed category set.
// Exact matches and known aliases resolve; a category followed by trailing
// chatter ("Document - because ...") still resolves; everything else is Other.
func NormalizeCategory(value string) Category {
	val := strings.ToLower(strings.TrimSpace(value))
	if val == "" {
		return CategoryOther
	}
	if cat, ok := categoryAliases[val]; ok {
		return cat
	}
	for _, cat := range AllCategories {
		lower := strings.ToLower(string(cat))
		if val == lower {
			return cat
		}
		for _, sep := range []string{" ", "(", "-", ":"} {
			if strings.HasPrefix(val, lower+sep) {
				return cat
			}
		}
	}
	return CategoryOther
}

var extensionCategories = map[string]Category{
	"pdf": CategoryDocument, "doc": CategoryDocument, "docx": CategoryDocument,
	"odt": CategoryDocument, "rtf": CategoryDocument, "txt": CategoryDocument,
	"md": CategoryDocument, "markdown": CategoryDocument, "pages": CategoryDocument,
	"html": CategoryDocument, "htm": CategoryDocument,

	"xls": CategorySpreadsheet, "xlsx": CategorySpreadsheet, "ods": CategorySpreadsheet,
	"numbers": CategorySpreadsheet,

	"ppt": CategoryPresentation, "pptx": CategoryPresentation, "odp": CategoryPresentation,
	"key": CategoryPresentation,

	"png": CategoryImage, "jpg": CategoryImage, "jpeg": CategoryImage,
	"gif": CategoryImage, "heic": CategoryImage, "tif": CategoryImage,
	"tiff": CategoryImage, "bmp": CategoryImage, "svg": CategoryImage,
	"webp": CategoryImage,

	"mp3": CategoryAudio, "wav": CategoryAudio, "flac": CategoryAudio,
	"aiff": CategoryAudio, "ogg": CategoryAudio, "m4a": CategoryAudio,

	"mp4": CategoryVideo, "mov": CategoryVideo, "mkv": CategoryVideo,
	"webm": CategoryVideo, "avi": CategoryVideo,

	"go": CategoryCode, "py": CategoryCode, "js": CategoryCode, "ts": CategoryCode,
	"c": CategoryCode, "cpp": CategoryCode, "h": CategoryCode, "java": CategoryCode,
	"rb": CategoryCode, "rs": CategoryCode, "sh": CategoryCode, "pl": CategoryCode,
	"php": CategoryCode, "swift": CategoryCode, "m": CategoryCode,

	"csv": CategoryData, "tsv": CategoryData, "json": CategoryData,
	"xml": CategoryData, "yaml": CategoryData, "yml": CategoryData,
	"parquet": CategoryData, "sqlite": CategoryData, "db": CategoryData,
}

// CategoryForExtension is the deterministic extension-to-category table used
// by the heuristic backend.
func CategoryForExtension(ext string) Category {
	if cat, ok := extensionCategories[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return cat
	}
	return CategoryOther
}
