package mcp

import (
	"context"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// mockVaultService is a mock implementation of driving.VaultService.
type mockVaultService struct {
	hits      []domain.SearchHit
	notes     map[string]domain.Note
	err       error
	lastQuery string
	lastLimit int
}

func (m *mockVaultService) Load(_ context.Context) (domain.LoadReport, error) {
	return domain.LoadReport{Indexed: len(m.notes)}, m.err
}

func (m *mockVaultService) Get(_ context.Context, path string) (*domain.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	note, ok := m.notes[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &note, nil
}

func (m *mockVaultService) List(_ context.Context) ([]domain.Note, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Note
	for _, n := range m.notes {
		out = append(out, n)
	}
	return out, nil
}

func (m *mockVaultService) Save(_ context.Context, _ domain.Note) error { return m.err }

func (m *mockVaultService) Delete(_ context.Context, _ string) error { return m.err }

func (m *mockVaultService) Rename(_ context.Context, _, _ string) error { return m.err }

func (m *mockVaultService) Search(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	m.lastQuery = query
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.hits, nil
}

func (m *mockVaultService) Watch(_ context.Context) error { return m.err }
