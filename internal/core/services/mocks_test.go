package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockWorker implements driven.SearchWorker for testing.
type mockWorker struct {
	mu         sync.Mutex
	upserts    []domain.Document
	removes    []removeCall
	queries    []string
	hits       []domain.SearchHit
	err        error
	terminated int
}

type removeCall struct {
	path    string
	version uint64
}

func (m *mockWorker) Upsert(_ context.Context, doc domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.upserts = append(m.upserts, doc)
	return nil
}

func (m *mockWorker) Remove(_ context.Context, path string, version uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.removes = append(m.removes, removeCall{path: path, version: version})
	return nil
}

func (m *mockWorker) Search(_ context.Context, query string) ([]domain.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.SearchHit(nil), m.hits...), nil
}

func (m *mockWorker) Terminate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terminated++
}

// mockFactory hands out workers in order and counts spawns.
type mockFactory struct {
	mu      sync.Mutex
	workers []*mockWorker
	err     error
	spawned int
}

func (f *mockFactory) spawn() (driven.SearchWorker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spawned++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.workers) == 0 {
		return &mockWorker{}, nil
	}
	w := f.workers[0]
	f.workers = f.workers[1:]
	return w, nil
}

func (f *mockFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spawned
}

// mockSearch implements driving.SearchService for testing.
type mockSearch struct {
	mu        sync.Mutex
	docs      map[string]domain.Document
	removed   []string
	hits      []domain.SearchHit
	upsertErr error
	removeErr error
	searchErr error
	failPaths map[string]error
	searches  int
}

func newMockSearch() *mockSearch {
	return &mockSearch{docs: make(map[string]domain.Document)}
}

func (m *mockSearch) UpsertDocument(_ context.Context, doc domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failPaths[doc.Path]; err != nil {
		return err
	}
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.docs[doc.Path] = doc
	return nil
}

func (m *mockSearch) RemoveDocument(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.docs, path)
	m.removed = append(m.removed, path)
	return nil
}

func (m *mockSearch) SearchDocuments(_ context.Context, _ string) ([]domain.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockSearch) DisposeSearchWorker() {}

func (m *mockSearch) indexed(path string) (domain.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[path]
	return doc, ok
}

// mockNormaliser uses the content as text and fails for paths containing "bad".
type mockNormaliser struct{}

func (mockNormaliser) Normalise(_ context.Context, note domain.Note) (domain.Document, error) {
	if strings.Contains(note.Path, "bad") {
		return domain.Document{}, domain.ErrInvalidInput
	}
	return domain.Document{Path: note.Path, Title: note.Path, Text: note.Content}, nil
}

// mockWatcher implements driven.NoteWatcher for testing.
type mockWatcher struct {
	events chan driven.NoteEvent
	errs   chan error
}

func newMockWatcher() *mockWatcher {
	return &mockWatcher{
		events: make(chan driven.NoteEvent),
		errs:   make(chan error),
	}
}

func (m *mockWatcher) Events() <-chan driven.NoteEvent { return m.events }
func (m *mockWatcher) Errors() <-chan error            { return m.errs }
func (m *mockWatcher) Close() error {
	close(m.events)
	close(m.errs)
	return nil
}
