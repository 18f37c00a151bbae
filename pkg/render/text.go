// Package render turns a note into downloadable documents: plain text,
// PDF and sanitized standalone HTML.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"

	"github.com/unowned-ai/jotter/pkg/notes"
)

// blockTags start a new line when opened or closed.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true, "hr": true,
	"table": true, "section": true, "article": true,
}

// ContentText extracts readable text from a note's HTML content. Block
// elements become line breaks, list items get a "- " marker and entities
// are decoded.
func ContentText(content string) string {
	var b strings.Builder
	newline := func() {
		s := b.String()
		if s != "" && !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}

	z := html.NewTokenizer(strings.NewReader(content))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed document; either way keep what was read.
			return tidy(b.String())

		case html.TextToken:
			if skip > 0 {
				continue
			}
			b.WriteString(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if tt == html.StartTagToken {
					skip++
				}
			case tag == "br":
				b.WriteByte('\n')
			case tag == "li":
				newline()
				b.WriteString("- ")
			case blockTags[tag]:
				newline()
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "script" || tag == "style":
				if skip > 0 {
					skip--
				}
			case blockTags[tag]:
				newline()
			}
		}
	}
}

// tidy trims trailing blanks on each line and the text as a whole.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\u00a0")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Date formats t as "January 2nd, 2006".
func Date(t time.Time) string {
	return fmt.Sprintf("%s %s, %d", t.Month(), humanize.Ordinal(t.Day()), t.Year())
}

// DateTime formats t as "January 2nd, 2006 3:04 PM".
func DateTime(t time.Time) string {
	return Date(t) + " " + t.Format("3:04 PM")
}

// PlainText renders the text download of n.
func PlainText(n notes.Note) string {
	var b strings.Builder
	b.WriteString(n.Title)
	b.WriteString("\n\n")
	b.WriteString(ContentText(n.Content))
	b.WriteString("\n\nTags: ")
	b.WriteString(strings.Join(n.Tags, ", "))
	b.WriteString("\n\nCreated: ")
	b.WriteString(Date(n.CreatedAt))
	b.WriteString("\nUpdated: ")
	b.WriteString(DateTime(n.UpdatedAt))
	return b.String()
}

var fileNameReplacer = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "\x00", "",
	"\n", " ", "\r", " ",
)

// FileName returns the download file name for a note title, e.g.
// "Groceries.txt". An empty title falls back to notes.DefaultTitle.
func FileName(title, ext string) string {
	name := strings.TrimSpace(fileNameReplacer.Replace(title))
	if name == "" || name == "." || name == ".." {
		name = notes.DefaultTitle
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
