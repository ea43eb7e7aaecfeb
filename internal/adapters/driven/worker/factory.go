package worker

import (
	"fmt"

	"github.com/custodia-labs/notevault/internal/adapters/driven/index/bleveindex"
	"github.com/custodia-labs/notevault/internal/adapters/driven/index/native"
	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/metrics"
	"github.com/custodia-labs/notevault/internal/snippet"
)

// Factory returns a WorkerFactory for the given settings. Each call of the
// factory builds a fresh index and a fresh worker.
func Factory(settings domain.SearchSettings, m *metrics.Metrics) driven.WorkerFactory {
	return func() (driven.SearchWorker, error) {
		switch settings.Isolation {
		case domain.IsolationGoroutine, "":
		default:
			return nil, fmt.Errorf("isolation %q: %w", settings.Isolation, domain.ErrWorkerUnsupported)
		}

		index, err := NewIndex(settings.Engine)
		if err != nil {
			return nil, err
		}

		w, err := Start(Config{
			Index:     index,
			Snippets:  snippet.Extractor{Context: settings.SnippetContext, Head: settings.SnippetHead},
			Limit:     settings.Limit,
			CacheSize: settings.CacheSize,
			Metrics:   m,
		})
		if err != nil {
			_ = index.Close()
			return nil, err
		}
		return w, nil
	}
}

// NewIndex creates an empty index for engine. An empty engine selects the
// native index.
func NewIndex(engine domain.SearchEngine) (driven.SearchIndex, error) {
	switch engine {
	case domain.SearchEngineNative, "":
		return native.New(), nil
	case domain.SearchEngineBleve:
		return bleveindex.New()
	default:
		return nil, fmt.Errorf("search engine %q: %w", engine, domain.ErrInvalidInput)
	}
}
