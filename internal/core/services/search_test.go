package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notevault/internal/adapters/driven/worker"
	"github.com/custodia-labs/notevault/internal/core/domain"
)

func TestSearchService_LazyWorker(t *testing.T) {
	f := &mockFactory{}
	svc := NewSearchService(f.spawn)

	assert.False(t, svc.Active())
	assert.Equal(t, 0, f.count())

	require.NoError(t, svc.UpsertDocument(context.Background(), domain.Document{Path: "a"}))
	assert.True(t, svc.Active())
	assert.Equal(t, 1, f.count())

	_, err := svc.SearchDocuments(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, f.count(), "worker reused")
}

func TestSearchService_FactoryFailureRetriedPerCall(t *testing.T) {
	f := &mockFactory{err: domain.ErrWorkerUnsupported}
	svc := NewSearchService(f.spawn)
	ctx := context.Background()

	err := svc.UpsertDocument(ctx, domain.Document{Path: "a"})
	assert.ErrorIs(t, err, domain.ErrWorkerUnsupported)
	assert.False(t, svc.Active())

	_, err = svc.SearchDocuments(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrWorkerUnsupported)
	assert.Equal(t, 2, f.count())

	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()

	require.NoError(t, svc.RemoveDocument(ctx, "a"))
	assert.True(t, svc.Active())
}

func TestSearchService_NilFactory(t *testing.T) {
	svc := NewSearchService(nil)

	_, err := svc.SearchDocuments(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrWorkerUnsupported)
}

func TestSearchService_VersionsMonotonic(t *testing.T) {
	w := &mockWorker{}
	f := &mockFactory{workers: []*mockWorker{w}}
	svc := NewSearchService(f.spawn)
	ctx := context.Background()

	require.NoError(t, svc.UpsertDocument(ctx, domain.Document{Path: "a", Version: 99}))
	require.NoError(t, svc.RemoveDocument(ctx, "a"))
	require.NoError(t, svc.UpsertDocument(ctx, domain.Document{Path: "b"}))

	require.Len(t, w.upserts, 2)
	require.Len(t, w.removes, 1)
	assert.Equal(t, uint64(1), w.upserts[0].Version)
	assert.Equal(t, uint64(2), w.removes[0].version)
	assert.Equal(t, uint64(3), w.upserts[1].Version)
}

func TestSearchService_SearchPassesHits(t *testing.T) {
	w := &mockWorker{hits: []domain.SearchHit{{Path: "a", Title: "A", Snippet: "s"}}}
	svc := NewSearchService((&mockFactory{workers: []*mockWorker{w}}).spawn)

	hits, err := svc.SearchDocuments(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, w.hits, hits)
	assert.Equal(t, []string{"q"}, w.queries)
}

func TestSearchService_ErrorsWrapped(t *testing.T) {
	boom := errors.New("boom")
	w := &mockWorker{err: boom}
	svc := NewSearchService((&mockFactory{workers: []*mockWorker{w}}).spawn)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpsertDocument(ctx, domain.Document{Path: "a"}), boom)
	assert.ErrorIs(t, svc.RemoveDocument(ctx, "a"), boom)
	_, err := svc.SearchDocuments(ctx, "a")
	assert.ErrorIs(t, err, boom)
	assert.True(t, svc.Active(), "ordinary failures keep the worker")
}

func TestSearchService_Dispose(t *testing.T) {
	first, second := &mockWorker{}, &mockWorker{}
	f := &mockFactory{workers: []*mockWorker{first, second}}
	svc := NewSearchService(f.spawn)
	ctx := context.Background()

	svc.DisposeSearchWorker() // no worker yet
	assert.Equal(t, 0, f.count())

	require.NoError(t, svc.UpsertDocument(ctx, domain.Document{Path: "a"}))
	svc.DisposeSearchWorker()
	assert.False(t, svc.Active())
	assert.Equal(t, 1, first.terminated)

	svc.DisposeSearchWorker()
	assert.Equal(t, 1, first.terminated)

	require.NoError(t, svc.UpsertDocument(ctx, domain.Document{Path: "b"}))
	assert.Equal(t, 2, f.count())
	assert.Len(t, second.upserts, 1)
}

func TestSearchService_TerminatedWorkerReplaced(t *testing.T) {
	dead := &mockWorker{err: fmt.Errorf("call: %w", domain.ErrWorkerTerminated)}
	fresh := &mockWorker{}
	f := &mockFactory{workers: []*mockWorker{dead, fresh}}
	svc := NewSearchService(f.spawn)
	ctx := context.Background()

	err := svc.UpsertDocument(ctx, domain.Document{Path: "a"})
	assert.ErrorIs(t, err, domain.ErrWorkerTerminated)
	assert.False(t, svc.Active())

	require.NoError(t, svc.UpsertDocument(ctx, domain.Document{Path: "a"}))
	assert.Equal(t, 2, f.count())
	assert.Len(t, fresh.upserts, 1)
}

func TestSearchService_ConcurrentFirstUseSpawnsOnce(t *testing.T) {
	f := &mockFactory{}
	svc := NewSearchService(f.spawn)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.UpsertDocument(context.Background(), domain.Document{Path: fmt.Sprintf("d%d", i)})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, f.count())
}

// newLiveSearch wires the facade to a real goroutine worker.
func newLiveSearch(t *testing.T) *SearchService {
	t.Helper()
	settings := domain.DefaultSettings().Search
	svc := NewSearchService(worker.Factory(settings, nil))
	t.Cleanup(svc.DisposeSearchWorker)
	return svc
}

func TestSearchService_LiveWorker(t *testing.T) {
	svc := newLiveSearch(t)
	ctx := context.Background()

	require.NoError(t, svc.UpsertDocument(ctx, domain.Document{Path: "a.md", Title: "Alpha", Text: "the quick brown fox"}))
	require.NoError(t, svc.UpsertDocument(ctx, domain.Document{Path: "b.md", Title: "Beta", Text: "lazy dog"}))

	hits, err := svc.SearchDocuments(ctx, "qui")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a.md", hits[0].Path)
	assert.Contains(t, hits[0].Snippet, "quick")

	require.NoError(t, svc.RemoveDocument(ctx, "a.md"))
	hits, err = svc.SearchDocuments(ctx, "quick")
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = svc.SearchDocuments(ctx, "   ")
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestSearchService_LiveRespawnAfterDispose(t *testing.T) {
	svc := newLiveSearch(t)
	ctx := context.Background()

	require.NoError(t, svc.UpsertDocument(ctx, domain.Document{Path: "a.md", Text: "kept"}))
	svc.DisposeSearchWorker()

	// A fresh worker starts empty; the vault reloads it.
	hits, err := svc.SearchDocuments(ctx, "kept")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchService_LiveUnsupportedIsolation(t *testing.T) {
	settings := domain.DefaultSettings().Search
	settings.Isolation = domain.IsolationNone
	svc := NewSearchService(worker.Factory(settings, nil))

	err := svc.UpsertDocument(context.Background(), domain.Document{Path: "a"})
	assert.ErrorIs(t, err, domain.ErrWorkerUnsupported)
}
