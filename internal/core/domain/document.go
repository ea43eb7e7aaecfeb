package domain

import "time"

// Note is a single note as held by a vault backend.
// It is the source of truth from which the search index is derived.
type Note struct {
	// Path is the vault-relative location of the note (e.g. "projects/alpha.md").
	Path string

	// Content is the raw markdown body including any frontmatter.
	Content string

	// ModTime is when the note was last written.
	ModTime time.Time
}

// Document is the indexed representation of a note.
// At most one Document exists per Path inside an index; a second upsert
// for the same Path replaces the first entirely.
type Document struct {
	// Path is the primary key of the document in the index.
	Path string

	// Title is the display name. Title words are searchable.
	Title string

	// Text is the plain-text body at the time of indexing.
	Text string

	// Version orders writes to the same path. Zero means unversioned
	// and is always applied.
	Version uint64
}
