// Package plaintext normalises notes stored as plain text.
package plaintext

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text notes. The text is indexed as-is and the
// title is derived from the file name.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise converts a note to a document without altering its text.
func (n *Normaliser) Normalise(_ context.Context, note domain.Note) (domain.Document, error) {
	if note.Path == "" {
		return domain.Document{}, fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	return domain.Document{
		Path:  note.Path,
		Title: extractTitle(note.Path),
		Text:  strings.TrimSpace(note.Content),
	}, nil
}

// extractTitle extracts a human-readable title from a note path.
func extractTitle(p string) string {
	filename := path.Base(p)
	if ext := path.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
