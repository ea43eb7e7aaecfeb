package driving

import (
	"context"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// VaultService manages notes and keeps the search index in step with them.
type VaultService interface {
	// Load indexes every note in the vault. Per-note failures are counted,
	// not returned.
	Load(ctx context.Context) (domain.LoadReport, error)

	// Get retrieves a note by path.
	Get(ctx context.Context, path string) (*domain.Note, error)

	// List returns all notes.
	List(ctx context.Context) ([]domain.Note, error)

	// Save persists a note and reindexes it.
	Save(ctx context.Context, note domain.Note) error

	// Delete removes a note and its index entry.
	Delete(ctx context.Context, path string) error

	// Rename moves a note; the old path leaves the index, the new one enters it.
	Rename(ctx context.Context, oldPath, newPath string) error

	// Search queries the index. Blank queries short-circuit to no hits.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error)

	// Watch applies vault change events to the index until ctx ends.
	Watch(ctx context.Context) error
}
