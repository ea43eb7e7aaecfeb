package driven

import (
	"context"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// NoteStore persists vault notes. It is the source of truth for the index.
type NoteStore interface {
	// List returns every note in the vault.
	List(ctx context.Context) ([]domain.Note, error)

	// Get retrieves a note by path.
	Get(ctx context.Context, path string) (*domain.Note, error)

	// Save creates or overwrites a note.
	Save(ctx context.Context, note domain.Note) error

	// Delete removes a note. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, path string) error

	// Rename moves a note. Returns domain.ErrNotFound if oldPath is absent
	// and domain.ErrAlreadyExists if newPath is taken.
	Rename(ctx context.Context, oldPath, newPath string) error
}

// NoteEventKind describes what happened to a note.
type NoteEventKind int

// Note event kinds.
const (
	// NoteChanged means the note was created or its content changed.
	NoteChanged NoteEventKind = iota

	// NoteRemoved means the note no longer exists at Path.
	NoteRemoved
)

// String returns a short name for the kind.
func (k NoteEventKind) String() string {
	switch k {
	case NoteChanged:
		return "changed"
	case NoteRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// NoteEvent is a debounced change notification for one path.
// A rename arrives as NoteRemoved for the old path and NoteChanged for the new one.
type NoteEvent struct {
	Kind NoteEventKind
	Path string
}

// NoteWatcher streams vault changes.
type NoteWatcher interface {
	// Events returns the channel of debounced note events.
	// The channel is closed when the watcher stops.
	Events() <-chan NoteEvent

	// Errors returns the channel of watcher errors.
	Errors() <-chan error

	// Close stops watching.
	Close() error
}
