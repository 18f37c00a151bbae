package notes

import (
	"sort"
	"strings"
)

// Query narrows the note list the way the sidebar does.
type Query struct {
	Search string // Case-insensitive substring of title or content
	Tag    string // Exact tag; empty matches every note
}

// Matches reports whether n passes both the search and the tag filter.
func (q Query) Matches(n Note) bool {
	if q.Tag != "" && !n.HasTag(q.Tag) {
		return false
	}
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(n.Title), term) ||
		strings.Contains(strings.ToLower(n.Content), term)
}

// Filter returns the notes matching q, pinned notes first and each group
// ordered by UpdatedAt descending. Equal timestamps keep collection order.
func Filter(notes []Note, q Query) []Note {
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if q.Matches(n) {
			out = append(out, n.clone())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// AllTags lists every distinct tag in first-seen order.
func AllTags(notes []Note) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, n := range notes {
		for _, t := range n.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}
