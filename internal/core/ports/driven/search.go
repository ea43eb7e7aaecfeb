package driven

import (
	"context"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// SearchIndex is a token-based inverted index over a mutable document set.
// Implementations are owned by a single SearchWorker and are not required
// to be safe for concurrent use.
type SearchIndex interface {
	// Upsert inserts the document or fully replaces the one with the same path.
	Upsert(doc domain.Document) error

	// Remove deletes the document and every posting that refers to it.
	// Removing an unknown path is a no-op.
	Remove(path string) error

	// Search returns at most limit distinct matches ordered by relevance.
	// An empty or whitespace-only query yields no matches.
	Search(query string, limit int) ([]IndexMatch, error)

	// Get returns the currently indexed document for path.
	Get(path string) (domain.Document, bool)

	// Len returns the number of indexed documents.
	Len() int

	// Close releases resources.
	Close() error
}

// IndexMatch is a ranked document identifier returned by a SearchIndex.
type IndexMatch struct {
	// Path identifies the matched document.
	Path string

	// Score is the engine-defined relevance score.
	Score float64
}

// SearchWorker is a handle on the isolated execution context that hosts a
// SearchIndex. Every call crosses the boundary and blocks until the worker
// replies, the context ends, or the worker terminates. Data is copied in
// both directions.
type SearchWorker interface {
	// Upsert indexes doc inside the worker.
	Upsert(ctx context.Context, doc domain.Document) error

	// Remove drops path from the index. A non-zero version is ordered
	// against upserts of the same path.
	Remove(ctx context.Context, path string, version uint64) error

	// Search runs the query and assembles hits with snippets.
	Search(ctx context.Context, query string) ([]domain.SearchHit, error)

	// Terminate stops the worker. It is safe to call more than once.
	Terminate()
}

// WorkerFactory creates a new SearchWorker. It returns
// domain.ErrWorkerUnsupported when no isolated context can be created.
type WorkerFactory func() (SearchWorker, error)
