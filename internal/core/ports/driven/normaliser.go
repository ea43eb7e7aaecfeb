package driven

import (
	"context"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// Normaliser transforms a raw note into its indexed form.
// The returned Document carries plain text only; markup is stripped.
type Normaliser interface {
	// Normalise extracts the title and plain text of a note.
	Normalise(ctx context.Context, note domain.Note) (domain.Document, error)
}
