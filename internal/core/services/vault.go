package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/core/ports/driving"
	"github.com/custodia-labs/notevault/internal/logger"
)

// Ensure VaultService implements the interface.
var _ driving.VaultService = (*VaultService)(nil)

// ErrNoWatcher is returned by Watch when no watcher has been configured.
var ErrNoWatcher = errors.New("vault watcher not configured")

// VaultService owns the note store and mirrors every change into the
// search index.
type VaultService struct {
	store      driven.NoteStore
	normaliser driven.Normaliser
	search     driving.SearchService
	watcher    driven.NoteWatcher
	log        logger.Component
}

// NewVaultService creates a new vault service.
func NewVaultService(
	store driven.NoteStore,
	normaliser driven.Normaliser,
	search driving.SearchService,
) *VaultService {
	return &VaultService{
		store:      store,
		normaliser: normaliser,
		search:     search,
		log:        logger.For("vault"),
	}
}

// SetWatcher configures the change feed consumed by Watch.
func (s *VaultService) SetWatcher(w driven.NoteWatcher) {
	s.watcher = w
}

// Load indexes every note in the store. A note that fails to normalise or
// index is logged and counted; the load carries on with the rest.
func (s *VaultService) Load(ctx context.Context) (domain.LoadReport, error) {
	logger.Section("Vault Load")

	var report domain.LoadReport
	notes, err := s.store.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list notes: %w", err)
	}
	logger.Debug("Found %d notes", len(notes))

	for _, note := range notes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := s.index(ctx, note); err != nil {
			if errors.Is(err, domain.ErrWorkerUnsupported) {
				return report, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			report.Failed++
			s.log.Error("index %s: %v", note.Path, err)
			continue
		}
		report.Indexed++
	}

	logger.Info("Indexed %d notes (%d failed)", report.Indexed, report.Failed)
	return report, nil
}

// Get retrieves a note by path.
func (s *VaultService) Get(ctx context.Context, path string) (*domain.Note, error) {
	return s.store.Get(ctx, path)
}

// List returns all notes.
func (s *VaultService) List(ctx context.Context) ([]domain.Note, error) {
	return s.store.List(ctx)
}

// Save persists the note and reindexes it. A note that was stored but could
// not be indexed is reported with the indexing error.
func (s *VaultService) Save(ctx context.Context, note domain.Note) error {
	if strings.TrimSpace(note.Path) == "" {
		return fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	if err := s.store.Save(ctx, note); err != nil {
		return fmt.Errorf("save %s: %w", note.Path, err)
	}
	if err := s.index(ctx, note); err != nil {
		return fmt.Errorf("saved %s but not indexed: %w", note.Path, s.searchErr(err))
	}
	return nil
}

// Delete removes a note and its index entry.
func (s *VaultService) Delete(ctx context.Context, path string) error {
	if err := s.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if err := s.search.RemoveDocument(ctx, path); err != nil {
		return fmt.Errorf("deleted %s but not unindexed: %w", path, s.searchErr(err))
	}
	return nil
}

// Rename moves a note. The old path leaves the index before the new one
// enters it.
func (s *VaultService) Rename(ctx context.Context, oldPath, newPath string) error {
	if strings.TrimSpace(newPath) == "" {
		return fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	if err := s.store.Rename(ctx, oldPath, newPath); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	if oldPath == newPath {
		return nil
	}
	if err := s.search.RemoveDocument(ctx, oldPath); err != nil {
		return fmt.Errorf("renamed %s but not unindexed: %w", oldPath, s.searchErr(err))
	}
	note, err := s.store.Get(ctx, newPath)
	if err != nil {
		return fmt.Errorf("reload %s: %w", newPath, err)
	}
	if err := s.index(ctx, *note); err != nil {
		return fmt.Errorf("renamed to %s but not indexed: %w", newPath, s.searchErr(err))
	}
	return nil
}

// Search queries the index. Blank queries return no hits without touching
// the worker, and results are capped at limit when it is positive.
func (s *VaultService) Search(ctx context.Context, query string, limit int) ([]domain.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchHit{}, nil
	}

	hits, err := s.search.SearchDocuments(ctx, query)
	if err != nil {
		return nil, s.searchErr(err)
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Watch applies watcher events to the index until ctx ends or the watcher
// closes its event channel.
func (s *VaultService) Watch(ctx context.Context) error {
	if s.watcher == nil {
		return ErrNoWatcher
	}

	events := s.watcher.Events()
	errs := s.watcher.Errors()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.apply(ctx, ev)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.log.Warn("watcher: %v", err)
		}
	}
}

func (s *VaultService) apply(ctx context.Context, ev driven.NoteEvent) {
	s.log.Debug("%s %s", ev.Kind, ev.Path)

	if ev.Kind == driven.NoteChanged {
		note, err := s.store.Get(ctx, ev.Path)
		switch {
		case err == nil:
			if err := s.index(ctx, *note); err != nil {
				s.log.Error("index %s: %v", ev.Path, err)
			}
			return
		case !errors.Is(err, domain.ErrNotFound):
			s.log.Error("read %s: %v", ev.Path, err)
			return
		}
		// Gone again before we could read it.
	}

	if err := s.search.RemoveDocument(ctx, ev.Path); err != nil {
		s.log.Error("unindex %s: %v", ev.Path, err)
	}
}

func (s *VaultService) index(ctx context.Context, note domain.Note) error {
	doc, err := s.normaliser.Normalise(ctx, note)
	if err != nil {
		return fmt.Errorf("normalise: %w", err)
	}
	return s.search.UpsertDocument(ctx, doc)
}

// searchErr marks worker construction failures as search being unavailable.
func (s *VaultService) searchErr(err error) error {
	if errors.Is(err, domain.ErrWorkerUnsupported) && !errors.Is(err, domain.ErrSearchUnavailable) {
		return fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}
	return err
}
