package metadata

import (
	"os"
	"strings"

	"golang.org/x/net/html"

	"tidy/internal/util"
)

// HTMLExtractor pulls the document title and visible text from HTML files.
type HTMLExtractor struct {
	suffixes map[string]bool
}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{suffixes: suffixSet("html", "htm", "xhtml")}
}

func (e *HTMLExtractor) Name() string { return "html" }

func (e *HTMLExtractor) Supports(path string) bool {
	return e.suffixes[ExtensionOf(path)]
}

func (e *HTMLExtractor) Extract(path string, maxPreview int) (*FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}
	defer file.Close()

	doc, err := html.Parse(file)
	if err != nil {
		return nil, &ExtractionError{Path: path, Reason: ReasonParseFailure, Detail: err.Error()}
	}

	meta := &FileMetadata{
		Path:         path,
		Extension:    ExtensionOf(path),
		Size:         info.Size(),
		Fields:       map[string]string{},
		ContentAware: true,
	}
	if title := htmlTitle(doc); title != "" {
		meta.Fields[FieldTitle] = util.Shorten(title, 200)
	}
	if text := htmlText(doc); text != "" {
		meta.Fields[FieldPreview] = util.Shorten(text, maxPreview)
	}
	return meta, nil
}

func htmlTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := htmlTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func htmlText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "script", "style", "head":
				return
			}
		}
		if node.Type == html.TextNode {
			if text := strings.TrimSpace(node.Data); text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
