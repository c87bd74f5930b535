package llm

import (
	"fmt"
	"strings"

	"tidy/internal/metadata"
)

const (
	promptFilenameChars = 80
	promptFieldChars    = 1200
	shrunkFieldChars    = 240

	renameMaxTokens = 200
	keepMaxTokens   = 120
	sortMaxTokens   = 400
)

const renameExampleOutput = "<response>\n" +
	"  <new_name>GV60_MAX_Fan_Manual_2015</new_name>\n" +
	"  <reason>manual with model and year</reason>\n" +
	"</response>"

const keepExampleOutput = "<response>\n" +
	"  <keep_original>true</keep_original>\n" +
	"  <reason>stem has a meaningful model number</reason>\n" +
	"</response>"

const sortExampleOutput = "<response>\n" +
	"  <file index=\"0\">\n" +
	"    <category>Document</category>\n" +
	"    <reason>manual with model and year</reason>\n" +
	"  </file>\n" +
	"</response>"

// promptFields lists metadata fields included in rename prompts, in order.
var promptFields = []string{
	metadata.FieldTitle,
	metadata.FieldKeywords,
	metadata.FieldDescription,
	metadata.FieldPreview,
	metadata.FieldCaption,
}

func buildRenamePrompt(meta *metadata.FileMetadata, currentName, userContext string) string {
	var lines []string
	if userContext != "" {
		lines = append(lines, "Context: "+sanitizePromptText(userContext, 200))
	}
	lines = append(lines,
		fmt.Sprintf("Rename this file concisely (max %d chars).", promptFilenameChars),
		"Use 3-8 meaningful tokens separated by underscores or hyphens.",
		"If the content is unclear, describe it neutrally and avoid guessing.",
		"current_name: "+currentName,
	)
	for _, field := range promptFields {
		if v := sanitizePromptText(meta.Field(field), promptFieldChars); v != "" {
			lines = append(lines, field+": "+v)
		}
	}
	lines = append(lines,
		"extension: "+meta.Extension,
		"Respond with a single XML block and nothing else:",
		renameExampleOutput,
	)
	return strings.Join(lines, "\n")
}

func buildKeepPrompt(meta *metadata.FileMetadata, currentName, newName string) string {
	lines := []string{
		"Decide if the original filename stem is meaningful and should be kept.",
		"Keep if the stem has a person name, project name, set number, or unique ID;",
		"discard if it is a random hash, UUID, or generic camera label.",
		"current_name: " + currentName,
		"suggested_name: " + newName,
	}
	if title := sanitizePromptText(meta.Field(metadata.FieldTitle), 200); title != "" {
		lines = append(lines, "title: "+title)
	}
	if desc := sanitizePromptText(meta.Description(), shrunkFieldChars); desc != "" {
		lines = append(lines, "description: "+desc)
	}
	lines = append(lines,
		"Respond with a single XML block and nothing else:",
		keepExampleOutput,
	)
	return strings.Join(lines, "\n")
}

func buildSortPrompt(items []BatchItem, userContext string) string {
	var lines []string
	if userContext != "" {
		lines = append(lines, "Context: "+sanitizePromptText(userContext, 200))
	}
	lines = append(lines, "Assign one allowed category to each file index.", "Allowed categories:")
	for _, cat := range AllCategories {
		lines = append(lines, "- "+string(cat))
	}
	lines = append(lines, "Files:")
	for _, item := range items {
		lines = append(lines, fmt.Sprintf(
			"file_%d: name=%s, ext=%s, desc=%s",
			item.Index, item.Name, item.Ext, sanitizePromptText(item.Description, shrunkFieldChars),
		))
	}
	lines = append(lines,
		"Use the index values shown above; do not renumber them.",
		"Respond with a single XML block and nothing else:",
		sortExampleOutput,
	)
	return strings.Join(lines, "\n")
}

// buildFormatFixPrompt restates the whole task: not every backend keeps chat
// history, so the retry must be self-contained or a literal-minded model will
// just echo the example back.
func buildFormatFixPrompt(taskPrompt, example string) string {
	return taskPrompt +
		"\n\nYour previous reply was not in the required format." +
		"\nReply with exactly this XML structure and nothing else:\n" + example
}

// shrinkPrompt produces the reduced payload used for the one retry after a
// guardrail block: long lines are truncated and repeated lines dropped.
func shrinkPrompt(prompt string) string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(prompt, "\n") {
		compact := strings.Join(strings.Fields(line), " ")
		if compact == "" {
			continue
		}
		if len(compact) > shrunkFieldChars {
			compact = compact[:shrunkFieldChars]
		}
		key := strings.ToLower(compact)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, compact)
	}
	return strings.Join(out, "\n")
}

// sanitizePromptText flattens whitespace, drops control characters and
// over-long tokens, and caps the total length.
func sanitizePromptText(value string, maxChars int) string {
	if value == "" {
		return ""
	}
	var tokens []string
	for _, tok := range strings.Fields(value) {
		if len(tok) > 60 {
			continue
		}
		clean := strings.Map(func(r rune) rune {
			if r < 0x20 || r == 0x7f {
				return -1
			}
			return r
		}, tok)
		if clean != "" {
			tokens = append(tokens, clean)
		}
	}
	text := strings.Join(tokens, " ")
	if len(text) > maxChars {
		text = text[:maxChars]
	}
	return strings.TrimSpace(text)
}
