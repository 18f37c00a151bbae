package notes

import (
	"strings"
)

// AddTag returns tags with tag appended. The tag is trimmed first; an empty
// tag or one already present leaves tags unchanged and reports false.
// Callers must go through AddTag before UpdateNote, the store itself does
// not deduplicate.
func AddTag(tags []string, tag string) ([]string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags, false
	}
	for _, t := range tags {
		if t == tag {
			return tags, false
		}
	}

	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	return append(out, tag), true
}

// RemoveTag returns tags without tag, reporting whether it was present.
func RemoveTag(tags []string, tag string) ([]string, bool) {
	out := make([]string, 0, len(tags))
	removed := false
	for _, t := range tags {
		if t == tag {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out, removed
}

// ParseTagList splits a comma-separated tag list, dropping blanks.
func ParseTagList(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		t := strings.TrimSpace(part)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
