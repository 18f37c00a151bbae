package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/unowned-ai/jotter/pkg/notes"
)

var policy = bluemonday.UGCPolicy()

// SanitizeContent strips scripts, event handlers and other unsafe markup from
// note content.
func SanitizeContent(content string) string {
	return policy.Sanitize(content)
}

// HTML renders n as a standalone HTML document with sanitized content.
func HTML(n notes.Note) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(html.EscapeString(n.Title))
	b.WriteString("</title>\n</head>\n<body>\n<h1>")
	b.WriteString(html.EscapeString(n.Title))
	b.WriteString("</h1>\n")

	if len(n.Tags) > 0 {
		b.WriteString("<p class=\"tags\">")
		for i, tag := range n.Tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("<span class=\"tag\">")
			b.WriteString(html.EscapeString(tag))
			b.WriteString("</span>")
		}
		b.WriteString("</p>\n")
	}

	b.WriteString("<article>\n")
	b.WriteString(SanitizeContent(n.Content))
	b.WriteString("\n</article>\n<footer>\n<p>Created: ")
	b.WriteString(html.EscapeString(Date(n.CreatedAt)))
	b.WriteString("</p>\n<p>Updated: ")
	b.WriteString(html.EscapeString(DateTime(n.UpdatedAt)))
	b.WriteString("</p>\n</footer>\n</body>\n</html>\n")
	return b.String()
}
