package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// Ensure NoteStore implements the interface.
var _ driven.NoteStore = (*NoteStore)(nil)

// NoteStore is an in-memory vault. Notes are lost when the process exits.
type NoteStore struct {
	mu    sync.RWMutex
	notes map[string]domain.Note
	now   func() time.Time
}

// NewNoteStore creates a new in-memory note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes: make(map[string]domain.Note),
		now:   time.Now,
	}
}

// List returns every note ordered by path.
func (s *NoteStore) List(_ context.Context) ([]domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Note, 0, len(s.notes))
	for _, note := range s.notes {
		result = append(result, note)
	}
	slices.SortFunc(result, func(a, b domain.Note) int {
		return strings.Compare(a.Path, b.Path)
	})
	return result, nil
}

// Get retrieves a note by path.
func (s *NoteStore) Get(_ context.Context, path string) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.notes[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &note, nil
}

// Save stores or overwrites a note.
func (s *NoteStore) Save(_ context.Context, note domain.Note) error {
	if note.Path == "" {
		return fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	if note.ModTime.IsZero() {
		note.ModTime = s.now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.Path] = note
	return nil
}

// Delete removes a note.
func (s *NoteStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[path]; !ok {
		return domain.ErrNotFound
	}
	delete(s.notes, path)
	return nil
}

// Rename moves a note to newPath.
func (s *NoteStore) Rename(_ context.Context, oldPath, newPath string) error {
	if newPath == "" {
		return fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[oldPath]
	if !ok {
		return domain.ErrNotFound
	}
	if oldPath == newPath {
		return nil
	}
	if _, taken := s.notes[newPath]; taken {
		return fmt.Errorf("rename to %s: %w", newPath, domain.ErrAlreadyExists)
	}
	delete(s.notes, oldPath)
	note.Path = newPath
	s.notes[newPath] = note
	return nil
}
