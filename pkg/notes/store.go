package notes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoItem is returned by a Storage when the requested key has never been written.
var ErrNoItem = errors.New("storage item not found")

// Storage is a durable key-value slot the store serializes its state into.
type Storage interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
}

// Listener receives a snapshot of the state after every change.
type Listener func(State)

// Store is the single authority over the note collection and view state.
// Every mutation is applied under one lock, persisted as a whole, and then
// published to subscribers. Operations referencing an unknown note id are
// silent no-ops; they report false instead of failing.
type Store struct {
	mu         sync.Mutex
	state      State
	storage    Storage
	key        string
	lastSaved  []byte
	persistErr error

	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	subMu   sync.Mutex
	nextSub int
	subs    map[int]Listener
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence problems.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithStorageKey changes the storage slot name (default StorageKey).
func WithStorageKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// Open builds a store and hydrates it once from storage. A missing slot or
// a snapshot that fails to decode yields an empty state; only a failure to
// read the slot at all is returned. A nil storage keeps everything in memory.
func Open(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	s := &Store{
		state:   State{Notes: []Note{}},
		storage: storage,
		key:     StorageKey,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
		subs:    make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	if storage == nil {
		return s, nil
	}

	data, err := storage.GetItem(ctx, s.key)
	if errors.Is(err, ErrNoItem) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage slot %q: %w", s.key, err)
	}

	state, err := DecodeState(data)
	if err != nil {
		s.logger.Warn("discarding unreadable persisted state", zap.String("key", s.key), zap.Error(err))
		return s, nil
	}
	s.state = state
	s.lastSaved = data
	return s, nil
}

// CreateNote inserts a fresh note at the head of the collection, makes it
// active and returns its id.
func (s *Store) CreateNote() string {
	s.mu.Lock()
	now := s.now()
	id := s.newID()
	for s.state.indexOf(id) >= 0 {
		id = s.newID()
	}
	n := Note{
		ID:        id,
		Title:     DefaultTitle,
		Content:   "",
		CreatedAt: now,
		UpdatedAt: now,
		Tags:      []string{},
		IsPinned:  false,
	}
	s.state.Notes = append([]Note{n}, s.state.Notes...)
	s.state.ActiveNoteID = &id
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return id
}

// UpdateNote applies the non-nil fields of u to the note with the given id
// and refreshes its UpdatedAt. It reports whether the note exists.
func (s *Store) UpdateNote(id string, u NoteUpdate) bool {
	s.mu.Lock()
	i := s.state.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	n := &s.state.Notes[i]
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.Tags != nil {
		n.Tags = append([]string{}, (*u.Tags)...)
	}
	if u.IsPinned != nil {
		n.IsPinned = *u.IsPinned
	}
	s.touch(n)
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return true
}

// DeleteNote removes the note with the given id. When it was the active
// note the first remaining note becomes active, or none if the list is empty.
func (s *Store) DeleteNote(id string) bool {
	s.mu.Lock()
	i := s.state.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	s.state.Notes = append(s.state.Notes[:i:i], s.state.Notes[i+1:]...)
	if s.state.ActiveID() == id {
		if len(s.state.Notes) > 0 {
			next := s.state.Notes[0].ID
			s.state.ActiveNoteID = &next
		} else {
			s.state.ActiveNoteID = nil
		}
	}
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return true
}

// TogglePinNote flips the pin flag of a note and refreshes its UpdatedAt.
func (s *Store) TogglePinNote(id string) bool {
	s.mu.Lock()
	i := s.state.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}

	n := &s.state.Notes[i]
	n.IsPinned = !n.IsPinned
	s.touch(n)
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
	return true
}

// SetActiveNote points the editor at id. The id is not validated; an empty
// id clears the selection.
func (s *Store) SetActiveNote(id string) {
	s.set(func(st *State) {
		if id == "" {
			st.ActiveNoteID = nil
			return
		}
		st.ActiveNoteID = &id
	})
}

// SetSearchTerm replaces the current search term.
func (s *Store) SetSearchTerm(term string) {
	s.set(func(st *State) { st.SearchTerm = term })
}

// SetSelectedTag replaces the current tag filter. Empty means no filter.
func (s *Store) SetSelectedTag(tag string) {
	s.set(func(st *State) { st.SelectedTag = tag })
}

// ToggleDarkMode flips the display preference and returns the new value.
func (s *Store) ToggleDarkMode() bool {
	var dark bool
	s.set(func(st *State) {
		st.IsDarkMode = !st.IsDarkMode
		dark = st.IsDarkMode
	})
	return dark
}

// ImportNotes replaces the whole collection with notes. Nothing is merged,
// validated or deduplicated, and the active pointer is left as is.
func (s *Store) ImportNotes(notes []Note) {
	imported := make([]Note, len(notes))
	for i, n := range notes {
		imported[i] = n.clone()
	}
	imported = normalizeNotes(imported)
	s.set(func(st *State) { st.Notes = imported })
}

// ImportJSON parses data as an exported note array and imports it. Malformed
// input is rejected and the current collection is kept.
func (s *Store) ImportJSON(data []byte) (int, error) {
	notes, err := ParseNotes(data)
	if err != nil {
		return 0, err
	}
	s.ImportNotes(notes)
	return len(notes), nil
}

// ExportNotes serializes the full collection for download.
func (s *Store) ExportNotes() ([]byte, error) {
	return MarshalNotes(s.Notes())
}

// Reload re-reads the storage slot and adopts it when it differs from what
// this store last wrote or loaded. It reports whether the state changed.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	if s.storage == nil {
		return false, nil
	}

	s.mu.Lock()
	data, err := s.storage.GetItem(ctx, s.key)
	if errors.Is(err, ErrNoItem) {
		s.mu.Unlock()
		return false, nil
	}
	if err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("failed to read storage slot %q: %w", s.key, err)
	}
	if bytes.Equal(data, s.lastSaved) {
		s.mu.Unlock()
		return false, nil
	}

	state, err := DecodeState(data)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.state = state
	s.lastSaved = data
	snap := s.state.clone()
	s.mu.Unlock()

	s.publish(snap)
	return true, nil
}

// Subscribe registers l to be called after every state change. The returned
// function removes the subscription.
func (s *Store) Subscribe(l Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = l

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Notes returns a copy of the collection in collection order.
func (s *Store) Notes() []Note {
	return s.Snapshot().Notes
}

// Note looks a note up by id.
func (s *Store) Note(id string) (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.state.indexOf(id)
	if i < 0 {
		return Note{}, false
	}
	return s.state.Notes[i].clone(), true
}

// ActiveNote returns the active note. A dangling or empty active id reads
// as no selection.
func (s *Store) ActiveNote() (Note, bool) {
	s.mu.Lock()
	id := s.state.ActiveID()
	s.mu.Unlock()

	if id == "" {
		return Note{}, false
	}
	return s.Note(id)
}

// FilteredNotes applies the current search term and tag filter.
func (s *Store) FilteredNotes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Filter(s.state.Notes, Query{Search: s.state.SearchTerm, Tag: s.state.SelectedTag})
}

// Tags lists every tag in use, in first-seen order.
func (s *Store) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllTags(s.state.Notes)
}

// Err returns the error of the most recent failed write, or nil once a
// later write succeeded.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

func (s *Store) set(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.commitLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// touch refreshes UpdatedAt without ever moving it backwards.
func (s *Store) touch(n *Note) {
	now := s.now()
	if now.Before(n.UpdatedAt) {
		now = n.UpdatedAt
	}
	if now.Before(n.CreatedAt) {
		now = n.CreatedAt
	}
	n.UpdatedAt = now
}

// commitLocked persists the state and returns a snapshot for publishing.
// Write failures are logged and remembered, never rolled back.
func (s *Store) commitLocked() State {
	snap := s.state.clone()
	if s.storage == nil {
		return snap
	}

	data, err := EncodeState(snap)
	if err == nil {
		err = s.storage.SetItem(context.Background(), s.key, data)
	}
	if err != nil {
		s.persistErr = err
		s.logger.Error("failed to persist note state", zap.String("key", s.key), zap.Error(err))
		return snap
	}

	s.persistErr = nil
	s.lastSaved = data
	return snap
}

func (s *Store) publish(snap State) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, l := range s.subs {
		listeners = append(listeners, l)
	}
	s.subMu.Unlock()

	for _, l := range listeners {
		l(snap.clone())
	}
}
