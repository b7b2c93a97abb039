package analysis

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// unsafeSelector matches elements that must not reach the page that renders
// the analysis.
const unsafeSelector = "script, style, iframe, object, embed"

// Sanitize unwraps a markdown code fence around the markup and removes
// executable or embedding elements. Markup without either passes through
// unchanged.
func Sanitize(text string) (string, error) {
	text = stripCodeFence(text)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("parse analysis html: %w", err)
	}

	unsafe := doc.Find(unsafeSelector)
	if unsafe.Length() == 0 {
		return text, nil
	}
	unsafe.Remove()

	if isFullDocument(text) {
		out, err := doc.Html()
		if err != nil {
			return "", fmt.Errorf("render analysis html: %w", err)
		}
		return out, nil
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("render analysis html: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ToMarkdown renders analysis markup as markdown.
func ToMarkdown(html string) (string, error) {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert analysis to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return text
	}
	inner := strings.TrimSuffix(trimmed, "```")
	// Drop the opening fence line, including any language tag.
	if i := strings.IndexByte(inner, '\n'); i >= 0 {
		inner = inner[i+1:]
	} else {
		inner = strings.TrimPrefix(inner, "```")
	}
	return strings.TrimSpace(inner)
}

// isFullDocument reports whether text opens with a doctype or html element.
func isFullDocument(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}
