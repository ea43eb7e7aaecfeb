// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/notevault/internal/core/domain"
)

// SearchTick fires when the debounce window for a query elapses.
// Only the tick whose Seq matches the latest keystroke runs a search.
type SearchTick struct {
	Seq   uint64
	Query string
}

// SearchCompleted carries search hits back to the model.
// Query is the input the search was issued for; a result whose Query no
// longer equals the input is stale.
type SearchCompleted struct {
	Query string
	Hits  []domain.SearchHit
	Err   error
}

// NoteRequested asks the app to open a note.
type NoteRequested struct {
	Path string
}

// NoteLoaded carries a note fetched from the vault.
type NoteLoaded struct {
	Path string
	Note *domain.Note
	Err  error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input and results view.
	ViewSearch ViewType = iota
	// ViewNote shows the content of a single note.
	ViewNote
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewNote:
		return "note"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
