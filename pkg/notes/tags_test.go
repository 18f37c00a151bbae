package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddTag(t *testing.T) {
	tags, added := AddTag(nil, "  work ")
	assert.True(t, added)
	assert.Equal(t, []string{"work"}, tags)

	tags, added = AddTag(tags, "work")
	assert.False(t, added)
	assert.Equal(t, []string{"work"}, tags)

	tags, added = AddTag(tags, "   ")
	assert.False(t, added)
	assert.Len(t, tags, 1)

	original := []string{"a"}
	grown, _ := AddTag(original, "b")
	assert.Equal(t, []string{"a"}, original, "input slice is not modified")
	assert.Equal(t, []string{"a", "b"}, grown)
}

func TestAddTagThroughStoreIsIdempotent(t *testing.T) {
	s, _ := setupTestStore(t)
	id := s.CreateNote()

	for i := 0; i < 3; i++ {
		n, _ := s.Note(id)
		if tags, added := AddTag(n.Tags, "todo"); added {
			s.UpdateNote(id, NoteUpdate{Tags: &tags})
		}
	}

	n, _ := s.Note(id)
	assert.Equal(t, []string{"todo"}, n.Tags)
}

func TestRemoveTag(t *testing.T) {
	tags, removed := RemoveTag([]string{"a", "b", "c"}, "b")
	assert.True(t, removed)
	assert.Equal(t, []string{"a", "c"}, tags)

	tags, removed = RemoveTag(tags, "zzz")
	assert.False(t, removed)
	assert.Equal(t, []string{"a", "c"}, tags)
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, ParseTagList(" a, b c ,,d,"))
	assert.Nil(t, ParseTagList(""))
}
