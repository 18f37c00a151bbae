package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/jotter/pkg/notes"
)

func sampleNote() notes.Note {
	return notes.Note{
		ID:        "n1",
		Title:     "Groceries",
		Content:   "<h2>Market</h2><ul><li>milk</li><li>eggs &amp; ham</li></ul><p>Pay by card</p>",
		CreatedAt: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, time.March, 22, 15, 4, 0, 0, time.UTC),
		Tags:      []string{"home", "weekly"},
	}
}

func TestContentText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello", "hello"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\ntwo"},
		{"line break", "a<br>b", "a\nb"},
		{"entities", "<p>1 &lt; 2 &amp;&amp; 3 &gt; 2</p>", "1 < 2 && 3 > 2"},
		{"list", "<ul><li>a</li><li>b</li></ul>", "- a\n- b"},
		{"inline markup", "<p>so <strong>bold</strong> and <em>it</em></p>", "so bold and it"},
		{"script dropped", "<p>x</p><script>alert(1)</script><p>y</p>", "x\ny"},
		{"unclosed", "<p>dangling <b>bold", "dangling bold"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ContentText(tc.in))
		})
	}
}

func TestDates(t *testing.T) {
	ts := time.Date(2023, time.November, 3, 21, 7, 0, 0, time.UTC)
	assert.Equal(t, "November 3rd, 2023", Date(ts))
	assert.Equal(t, "November 3rd, 2023 9:07 PM", DateTime(ts))
	assert.Equal(t, "January 11th, 2020", Date(time.Date(2020, time.January, 11, 0, 0, 0, 0, time.UTC)))
}

func TestPlainText(t *testing.T) {
	want := "Groceries\n\n" +
		"Market\n- milk\n- eggs & ham\nPay by card\n\n" +
		"Tags: home, weekly\n\n" +
		"Created: March 1st, 2024\n" +
		"Updated: March 22nd, 2024 3:04 PM"
	assert.Equal(t, want, PlainText(sampleNote()))
}

func TestPlainTextWithoutTags(t *testing.T) {
	n := sampleNote()
	n.Tags = []string{}
	assert.Contains(t, PlainText(n), "\n\nTags: \n\n")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Groceries.txt", FileName("Groceries", "txt"))
	assert.Equal(t, "Groceries.pdf", FileName("Groceries", ".pdf"))
	assert.Equal(t, "a-b-c.txt", FileName("a/b\\c", "txt"))
	assert.Equal(t, "Untitled Note.txt", FileName("   ", "txt"))
	assert.Equal(t, "Untitled Note.html", FileName("..", "html"))
}

func TestHTMLSanitizes(t *testing.T) {
	n := sampleNote()
	n.Title = "<Tom & Jerry>"
	n.Content = `<p onclick="steal()">hi</p><script>alert(1)</script><a href="javascript:x()">link</a>`

	doc := HTML(n)
	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>&lt;Tom &amp; Jerry&gt;</title>")
	assert.Contains(t, doc, "<p>hi</p>")
	assert.NotContains(t, doc, "onclick")
	assert.NotContains(t, doc, "<script>")
	assert.NotContains(t, doc, "javascript:")
	assert.Contains(t, doc, `<span class="tag">home</span>`)
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	n := sampleNote()
	n.Title = "Café notes"

	require.NoError(t, PDF(&buf, n))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 300)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	n := notes.Note{ID: "1", Title: "Trip/Plan", Content: "<p>pack</p>", Tags: []string{}}

	path, err := WriteFile(n, "txt", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Trip-Plan.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Trip/Plan\n\npack\n"))

	path, err = WriteFile(n, "html", filepath.Join(dir, "nested"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "Trip-Plan.html"), path)

	_, err = WriteFile(n, "docx", dir)
	assert.Error(t, err)
}
