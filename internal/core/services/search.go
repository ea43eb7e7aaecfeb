package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/core/ports/driving"
	"github.com/custodia-labs/notevault/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService is the client facade over the search worker. The worker is
// spawned on first use and reused until DisposeSearchWorker. A failed spawn
// is reported to the caller that triggered it; the next call tries again.
//
// Every upsert and remove is stamped with a monotonically increasing
// version, so when callers race on the same path the last-issued write wins
// inside the worker regardless of arrival order.
type SearchService struct {
	spawn driven.WorkerFactory

	mu     sync.Mutex
	worker driven.SearchWorker

	version atomic.Uint64
	log     logger.Component
}

// NewSearchService creates a facade that spawns workers with spawn.
func NewSearchService(spawn driven.WorkerFactory) *SearchService {
	return &SearchService{
		spawn: spawn,
		log:   logger.For("search"),
	}
}

// UpsertDocument makes doc searchable, replacing any previous version.
func (s *SearchService) UpsertDocument(ctx context.Context, doc domain.Document) error {
	doc.Version = s.version.Add(1)

	w, err := s.ensureWorker()
	if err != nil {
		return err
	}
	if err := s.settle(w, w.Upsert(ctx, doc)); err != nil {
		return fmt.Errorf("upsert %s: %w", doc.Path, err)
	}
	return nil
}

// RemoveDocument drops path from the index.
func (s *SearchService) RemoveDocument(ctx context.Context, path string) error {
	version := s.version.Add(1)

	w, err := s.ensureWorker()
	if err != nil {
		return err
	}
	if err := s.settle(w, w.Remove(ctx, path, version)); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// SearchDocuments runs query in the worker.
func (s *SearchService) SearchDocuments(ctx context.Context, query string) ([]domain.SearchHit, error) {
	w, err := s.ensureWorker()
	if err != nil {
		return nil, err
	}
	hits, err := w.Search(ctx, query)
	if err := s.settle(w, err); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return hits, nil
}

// DisposeSearchWorker terminates the worker and forgets it.
func (s *SearchService) DisposeSearchWorker() {
	s.mu.Lock()
	w := s.worker
	s.worker = nil
	s.mu.Unlock()

	if w != nil {
		w.Terminate()
		s.log.Debug("worker disposed")
	}
}

// Active reports whether a worker is currently running.
func (s *SearchService) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worker != nil
}

func (s *SearchService) ensureWorker() (driven.SearchWorker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.worker != nil {
		return s.worker, nil
	}
	if s.spawn == nil {
		return nil, fmt.Errorf("start search worker: no factory: %w", domain.ErrWorkerUnsupported)
	}

	w, err := s.spawn()
	if err != nil {
		s.log.Warn("worker unavailable: %v", err)
		return nil, fmt.Errorf("start search worker: %w", err)
	}
	s.worker = w
	s.log.Debug("worker started")
	return w, nil
}

// settle forgets w when it has terminated underneath us, so the next call
// spawns a replacement.
func (s *SearchService) settle(w driven.SearchWorker, err error) error {
	if !errors.Is(err, domain.ErrWorkerTerminated) {
		return err
	}

	s.mu.Lock()
	if s.worker == w {
		s.worker = nil
	}
	s.mu.Unlock()

	s.log.Warn("worker terminated, will respawn on next call")
	return err
}
