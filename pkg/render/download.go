package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unowned-ai/jotter/pkg/notes"
)

// Formats lists the download formats WriteFile accepts.
var Formats = []string{"txt", "pdf", "html"}

// WriteFile renders n in format ("txt", "pdf" or "html") and writes it into
// dir under FileName. It returns the path written.
func WriteFile(n notes.Note, format, dir string) (string, error) {
	var buf bytes.Buffer
	switch format {
	case "txt":
		buf.WriteString(PlainText(n))
	case "pdf":
		if err := PDF(&buf, n); err != nil {
			return "", fmt.Errorf("failed to render PDF: %w", err)
		}
	case "html":
		buf.WriteString(HTML(n))
	default:
		return "", fmt.Errorf("unsupported download format '%s' (want txt, pdf or html)", format)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory '%s': %w", dir, err)
	}
	path := filepath.Join(dir, FileName(n.Title, format))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return path, nil
}
