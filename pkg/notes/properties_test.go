package notes

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestStoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("created ids are pairwise distinct", prop.ForAll(
		func(count int) bool {
			s, err := Open(context.Background(), nil)
			if err != nil {
				return false
			}
			seen := make(map[string]bool)
			for i := 0; i < count; i++ {
				id := s.CreateNote()
				if seen[id] {
					return false
				}
				seen[id] = true
			}
			return len(s.Notes()) == count
		},
		gen.IntRange(0, 50),
	))

	properties.Property("title updates keep createdAt and never rewind updatedAt", prop.ForAll(
		func(titles []string) bool {
			s, _ := Open(context.Background(), nil, WithClock(newFakeClock().Now))
			id := s.CreateNote()
			prev, _ := s.Note(id)
			for _, title := range titles {
				s.UpdateNote(id, NoteUpdate{Title: String(title)})
				cur, _ := s.Note(id)
				if !cur.CreatedAt.Equal(prev.CreatedAt) || cur.UpdatedAt.Before(prev.UpdatedAt) || cur.Title != title {
					return false
				}
				if cur.UpdatedAt.Before(cur.CreatedAt) {
					return false
				}
				prev = cur
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("pin toggle is an involution", prop.ForAll(
		func(startPinned bool) bool {
			s, _ := Open(context.Background(), nil, WithClock(newFakeClock().Now))
			id := s.CreateNote()
			s.UpdateNote(id, NoteUpdate{IsPinned: Bool(startPinned)})
			before, _ := s.Note(id)

			s.TogglePinNote(id)
			mid, _ := s.Note(id)
			s.TogglePinNote(id)
			after, _ := s.Note(id)

			return after.IsPinned == startPinned &&
				mid.UpdatedAt.After(before.UpdatedAt) &&
				after.UpdatedAt.After(mid.UpdatedAt)
		},
		gen.Bool(),
	))

	properties.Property("export then import reproduces the collection", prop.ForAll(
		func(titles []string, tags []string) bool {
			s, _ := Open(context.Background(), nil)
			for _, title := range titles {
				id := s.CreateNote()
				s.UpdateNote(id, NoteUpdate{Title: String(title), Content: String("<p>" + title + "</p>"), Tags: Tags(tags)})
			}
			data, err := s.ExportNotes()
			if err != nil {
				return false
			}

			other, _ := Open(context.Background(), nil)
			if _, err := other.ImportJSON(data); err != nil {
				return false
			}

			want, got := s.Notes(), other.Notes()
			if len(want) != len(got) {
				return false
			}
			for i := range want {
				w, g := want[i], got[i]
				if w.ID != g.ID || w.Title != g.Title || w.Content != g.Content || w.IsPinned != g.IsPinned {
					return false
				}
				if !w.CreatedAt.Equal(g.CreatedAt) || !w.UpdatedAt.Equal(g.UpdatedAt) {
					return false
				}
				if len(w.Tags) != len(g.Tags) {
					return false
				}
				for j := range w.Tags {
					if w.Tags[j] != g.Tags[j] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.AnyString()),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("filter output is sorted pinned-first then newest-first", prop.ForAll(
		func(pins []bool) bool {
			s, _ := Open(context.Background(), nil, WithClock(newFakeClock().Now))
			for _, pinned := range pins {
				id := s.CreateNote()
				if pinned {
					s.TogglePinNote(id)
				}
			}
			out := s.FilteredNotes()
			for i := 1; i < len(out); i++ {
				a, b := out[i-1], out[i]
				if !a.IsPinned && b.IsPinned {
					return false
				}
				if a.IsPinned == b.IsPinned && a.UpdatedAt.Before(b.UpdatedAt) {
					return false
				}
			}
			return len(out) == len(pins)
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
