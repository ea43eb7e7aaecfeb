package worker

import (
	"errors"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// mockIndex is a driven.SearchIndex whose behaviour is set per test.
type mockIndex struct {
	upsertErr   error
	panicSearch bool
	closed      bool
	docs        map[string]domain.Document
}

func newMockIndex() *mockIndex {
	return &mockIndex{docs: make(map[string]domain.Document)}
}

func (m *mockIndex) Upsert(doc domain.Document) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.docs[doc.Path] = doc
	return nil
}

func (m *mockIndex) Remove(path string) error {
	delete(m.docs, path)
	return nil
}

func (m *mockIndex) Search(_ string, _ int) ([]driven.IndexMatch, error) {
	if m.panicSearch {
		panic("index corrupted")
	}
	return nil, errors.New("not supported by mock")
}

func (m *mockIndex) Get(path string) (domain.Document, bool) {
	doc, ok := m.docs[path]
	return doc, ok
}

func (m *mockIndex) Len() int { return len(m.docs) }

func (m *mockIndex) Close() error {
	m.closed = true
	return nil
}
