package notes

import (
	"time"
)

// DefaultTitle is the title given to freshly created notes.
const DefaultTitle = "Untitled Note"

// Note represents a single user-authored document.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // Formatted markup, never interpreted by the store
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tags      []string  `json:"tags"`
	IsPinned  bool      `json:"isPinned"`
}

// HasTag reports whether the note carries tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (n Note) clone() Note {
	c := n
	c.Tags = make([]string, len(n.Tags))
	copy(c.Tags, n.Tags)
	return c
}

// NoteUpdate holds a partial set of field changes for UpdateNote.
// A nil field is left untouched.
type NoteUpdate struct {
	Title    *string
	Content  *string
	Tags     *[]string
	IsPinned *bool
}

func (u NoteUpdate) empty() bool {
	return u.Title == nil && u.Content == nil && u.Tags == nil && u.IsPinned == nil
}

// State is the whole application state: the note collection plus view state.
type State struct {
	Notes        []Note  `json:"notes"`
	ActiveNoteID *string `json:"activeNoteId"`
	SearchTerm   string  `json:"searchTerm"`
	SelectedTag  string  `json:"selectedTag"`
	IsDarkMode   bool    `json:"isDarkMode"`
}

// ActiveID returns the active note id, or "" when none is set.
func (s State) ActiveID() string {
	if s.ActiveNoteID == nil {
		return ""
	}
	return *s.ActiveNoteID
}

func (s State) clone() State {
	c := s
	c.Notes = make([]Note, len(s.Notes))
	for i, n := range s.Notes {
		c.Notes[i] = n.clone()
	}
	if s.ActiveNoteID != nil {
		id := *s.ActiveNoteID
		c.ActiveNoteID = &id
	}
	return c
}

func (s State) indexOf(id string) int {
	for i, n := range s.Notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// String returns a pointer to s, for building a NoteUpdate.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building a NoteUpdate.
func Bool(b bool) *bool { return &b }

// Tags returns a pointer to tags, for building a NoteUpdate.
func Tags(tags []string) *[]string { return &tags }
