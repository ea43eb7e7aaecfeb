package driving

import (
	"context"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// SearchService is the client facade over the isolated search worker.
// The worker is created lazily on first use.
type SearchService interface {
	// UpsertDocument makes doc searchable, replacing any previous version.
	UpsertDocument(ctx context.Context, doc domain.Document) error

	// RemoveDocument drops path from the index.
	RemoveDocument(ctx context.Context, path string) error

	// SearchDocuments returns hits for query. A blank query returns no hits.
	SearchDocuments(ctx context.Context, query string) ([]domain.SearchHit, error)

	// DisposeSearchWorker tears the worker down. The next call recreates it.
	DisposeSearchWorker()
}
