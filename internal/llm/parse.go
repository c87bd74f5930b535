package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// Models are chatty: the expected output is extracted from a delimited
// <response> block inside whatever prose surrounds it, never assumed to be
// the whole reply.
var (
	responseBlockRe = regexp.MustCompile(`(?is)<response\b[^>]*>.*?</response>`)
	codeFenceRe     = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*\n(.*?)```")
	fileBlockRe     = regexp.MustCompile(`(?is)<file\b[^>]*\bindex\s*=\s*["'](\d+)["'][^>]*>(.*?)</file>`)
)

func stripCodeFences(text string) string {
	if !strings.Contains(text, "```") {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(text, "$1"))
}

// extractResponseBlock returns the first <response> block, or the cleaned
// text itself when it already starts with a recognized inner tag (some
// models skip the wrapper).
func extractResponseBlock(raw string) (string, bool) {
	cleaned := stripCodeFences(raw)
	if m := responseBlockRe.FindString(cleaned); m != "" {
		return m, true
	}
	lower := strings.ToLower(cleaned)
	for _, tag := range []string{"<new_name", "<keep_original", "<file", "<category"} {
		if strings.Contains(lower, tag) {
			return cleaned, true
		}
	}
	return "", false
}

func tagText(block, tag string) string {
	re := regexp.MustCompile(`(?is)<` + tag + `\b[^>]*>(.*?)</` + tag + `>`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	text := strings.TrimSpace(m[1])
	if strings.HasPrefix(text, "<![CDATA[") && strings.HasSuffix(text, "]]>") {
		text = strings.TrimSpace(text[len("<![CDATA[") : len(text)-len("]]>")])
	}
	return text
}

func parseRenameResponse(raw string) (RenameResult, error) {
	block, ok := extractResponseBlock(raw)
	if !ok {
		return RenameResult{}, &MalformedError{Detail: "no response block in rename reply", Raw: raw}
	}
	newName := tagText(block, "new_name")
	if newName == "" {
		return RenameResult{}, &MalformedError{Detail: "missing <new_name>", Raw: raw}
	}
	return RenameResult{NewName: newName, Reason: normalizeReason(tagText(block, "reason"))}, nil
}

func parseKeepResponse(raw string) (KeepResult, error) {
	block, ok := extractResponseBlock(raw)
	if !ok {
		return KeepResult{}, &MalformedError{Detail: "no response block in keep reply", Raw: raw}
	}
	keepText := strings.ToLower(tagText(block, "keep_original"))
	if keepText == "" {
		return KeepResult{}, &MalformedError{Detail: "missing <keep_original>", Raw: raw}
	}
	keep := strings.HasPrefix(keepText, "t") || keepText == "1" || keepText == "yes"
	return KeepResult{KeepOriginal: keep, Reason: normalizeReason(tagText(block, "reason"))}, nil
}

// parseCategoryResponse reads index-keyed category assignments. Indices come
// from the response text itself; they are never renumbered positionally.
// Missing indices are the caller's concern (they default to Other at merge).
func parseCategoryResponse(raw string) (map[int]Category, map[int]string, error) {
	block, ok := extractResponseBlock(raw)
	if ok {
		categories := make(map[int]Category)
		reasons := make(map[int]string)
		for _, m := range fileBlockRe.FindAllStringSubmatch(block, -1) {
			idx, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			categories[idx] = NormalizeCategory(tagText(m[2], "category"))
			if reason := normalizeReason(tagText(m[2], "reason")); reason != "" {
				reasons[idx] = reason
			}
		}
		if len(categories) > 0 {
			return categories, reasons, nil
		}
	}
	// Plain-line fallback: "file_<index>: <category>[ - reason]".
	categories := make(map[int]Category)
	reasons := make(map[int]string)
	for _, line := range strings.Split(stripCodeFences(raw), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(trimmed), "file_") {
			continue
		}
		left, right, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(strings.ToLower(left), "file_")))
		if err != nil {
			continue
		}
		value := strings.TrimSpace(right)
		reason := ""
		for _, sep := range []string{" - ", " | ", "\t"} {
			if c, r, found := strings.Cut(value, sep); found {
				value, reason = strings.TrimSpace(c), strings.TrimSpace(r)
				break
			}
		}
		categories[idx] = NormalizeCategory(value)
		if reason = normalizeReason(reason); reason != "" {
			reasons[idx] = reason
		}
	}
	if len(categories) == 0 {
		return nil, nil, &MalformedError{Detail: "no category assignments in sort reply", Raw: raw}
	}
	return categories, reasons, nil
}

var placeholderReasons = map[string]bool{
	"short justification": true,
	"short reason":        true,
	"optional":            true,
	"n/a":                 true,
	"na":                  true,
}

// normalizeReason drops placeholder reasons echoed back from prompt examples.
func normalizeReason(reason string) string {
	cleaned := strings.Join(strings.Fields(reason), " ")
	if placeholderReasons[strings.ToLower(cleaned)] {
		return ""
	}
	return cleaned
}
