package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StorageKey is the storage slot holding the persisted state.
const StorageKey = "note-app-storage"

// stateVersion is written into every persisted envelope.
const stateVersion = 0

var (
	ErrInvalidImport = errors.New("invalid import data")
	ErrInvalidState  = errors.New("invalid persisted state")
)

// envelope is the persisted layout: {"state": {...}, "version": 0}.
type envelope struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// EncodeState serializes the full state for the storage slot.
func EncodeState(s State) ([]byte, error) {
	s = normalizeState(s)
	data, err := json.Marshal(envelope{State: s, Version: stateVersion})
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses a persisted envelope back into a State.
func DecodeState(data []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if env.Version != stateVersion {
		return State{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidState, env.Version)
	}
	return normalizeState(env.State), nil
}

// MarshalNotes produces the export representation: a pretty-printed JSON array.
func MarshalNotes(notes []Note) ([]byte, error) {
	notes = normalizeNotes(notes)
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notes: %w", err)
	}
	return data, nil
}

// ParseNotes parses an import payload. Anything but a JSON array of note
// objects is rejected with ErrInvalidImport.
func ParseNotes(data []byte) ([]Note, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array of notes", ErrInvalidImport)
	}

	var notes []Note
	if err := json.Unmarshal(trimmed, &notes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return normalizeNotes(notes), nil
}

// ExportFileName returns the download name for an export taken at t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("notes-backup-%s.json", t.UTC().Format("2006-01-02"))
}

func normalizeState(s State) State {
	s.Notes = normalizeNotes(s.Notes)
	return s
}

// normalizeNotes makes nil slices serialize as [] rather than null.
func normalizeNotes(notes []Note) []Note {
	if notes == nil {
		return []Note{}
	}
	for i := range notes {
		if notes[i].Tags == nil {
			notes[i].Tags = []string{}
		}
	}
	return notes
}
