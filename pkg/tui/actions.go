package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/jotter/pkg/notes"
	"github.com/unowned-ai/jotter/pkg/render"
)

// storeChangedMsg signals that the store published a new state.
type storeChangedMsg struct{}

// saveContentMsg fires once the editor has been idle for the debounce period.
type saveContentMsg struct {
	id  string
	seq int
}

// statusMsg is a one-line confirmation shown in the footer.
type statusMsg string

// Wait for the next store notification
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// Schedule a content save after the debounce period
func scheduleSave(id string, seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return saveContentMsg{id: id, seq: seq}
	})
}

func marqueeTick() tea.Cmd {
	return tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
		return t
	})
}

// Copy the plain text rendition of a note to the system clipboard
func copyNote(n notes.Note) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(render.PlainText(n)); err != nil {
			return fmt.Errorf("failed to copy note to clipboard: %w", err)
		}
		return statusMsg(fmt.Sprintf("Copied '%s' to clipboard", n.Title))
	}
}

// Write a note as a text or PDF file into dir.
func downloadNote(n notes.Note, format, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := render.WriteFile(n, format, dir)
		if err != nil {
			return err
		}
		return statusMsg("Saved " + path)
	}
}
