// Package notes holds the note collection and its consistency rules.
//
// A Store owns the notes plus the view state around them (active note,
// search term, tag filter, dark mode). Editors never change a Note directly:
// they call Store operations, which persist the whole state into a Storage
// slot and publish a snapshot to subscribers.
package notes
