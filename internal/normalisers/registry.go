package normalisers

import (
	"context"
	"path"
	"strings"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/normalisers/markdown"
	"github.com/custodia-labs/notevault/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.Normaliser = (*Registry)(nil)

// Registry dispatches notes to a normaliser by file extension.
type Registry struct {
	byExt    map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewRegistry creates a registry that uses fallback for unregistered
// extensions.
func NewRegistry(fallback driven.Normaliser) *Registry {
	return &Registry{
		byExt:    make(map[string]driven.Normaliser),
		fallback: fallback,
	}
}

// Default returns the registry used by the application: markdown for
// .md and .markdown, plain text for .txt, markdown for everything else.
func Default() *Registry {
	md := markdown.New()
	r := NewRegistry(md)
	r.Register(md, ".md", ".markdown")
	r.Register(plaintext.New(), ".txt", ".text")
	return r
}

// Register maps extensions to n. Extensions are case-insensitive.
func (r *Registry) Register(n driven.Normaliser, exts ...string) {
	for _, ext := range exts {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// For returns the normaliser that handles path.
func (r *Registry) For(p string) driven.Normaliser {
	if n, ok := r.byExt[strings.ToLower(path.Ext(p))]; ok {
		return n
	}
	return r.fallback
}

// Normalise delegates to the normaliser registered for the note's extension.
func (r *Registry) Normalise(ctx context.Context, note domain.Note) (domain.Document, error) {
	n := r.For(note.Path)
	if n == nil {
		return domain.Document{}, domain.ErrInvalidInput
	}
	return n.Normalise(ctx, note)
}
