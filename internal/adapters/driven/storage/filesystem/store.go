// Package filesystem provides a vault backed by a directory of note files.
//
// Note paths are slash-separated and relative to the vault root. Hidden
// files and directories (leading ".") are never part of the vault.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// readConcurrency bounds the number of files read in parallel by List.
const readConcurrency = 8

// Ensure Store implements the interface.
var _ driven.NoteStore = (*Store)(nil)

// Store reads and writes notes under a root directory.
type Store struct {
	root       string
	extensions []string
}

// NewStore opens the vault at root. Only files whose extension is in
// extensions are notes; an empty list means ".md".
func NewStore(root string, extensions []string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving vault root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory: %w", abs, domain.ErrInvalidInput)
	}

	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = []string{".md"}
	}

	return &Store{root: abs, extensions: exts}, nil
}

// Root returns the absolute vault directory.
func (s *Store) Root() string {
	return s.root
}

// List returns every note under the root ordered by path.
func (s *Store) List(ctx context.Context) ([]domain.Note, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if path != s.root && hidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.accepts(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking vault: %w", err)
	}
	slices.Sort(paths)

	notes := make([]domain.Note, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			note, err := s.read(p)
			if err != nil {
				return err
			}
			notes[i] = *note
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return notes, nil
}

// Get retrieves a note by path.
func (s *Store) Get(_ context.Context, path string) (*domain.Note, error) {
	if _, err := s.resolve(path); err != nil {
		return nil, err
	}
	return s.read(path)
}

// Save writes the note, creating parent directories as needed.
func (s *Store) Save(_ context.Context, note domain.Note) error {
	abs, err := s.resolve(note.Path)
	if err != nil {
		return err
	}
	if !s.accepts(filepath.Base(abs)) {
		return fmt.Errorf("%s is not a vault note: %w", note.Path, domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("creating note directory: %w", err)
	}
	if err := os.WriteFile(abs, []byte(note.Content), 0o644); err != nil {
		return fmt.Errorf("writing note: %w", err)
	}
	if !note.ModTime.IsZero() {
		if err := os.Chtimes(abs, note.ModTime, note.ModTime); err != nil {
			return fmt.Errorf("setting note time: %w", err)
		}
	}
	return nil
}

// Delete removes the note file.
func (s *Store) Delete(_ context.Context, path string) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

// Rename moves a note file within the vault.
func (s *Store) Rename(_ context.Context, oldPath, newPath string) error {
	from, err := s.resolve(oldPath)
	if err != nil {
		return err
	}
	to, err := s.resolve(newPath)
	if err != nil {
		return err
	}
	if !s.accepts(filepath.Base(to)) {
		return fmt.Errorf("%s is not a vault note: %w", newPath, domain.ErrInvalidInput)
	}

	if _, err := os.Stat(from); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("reading note: %w", err)
	}
	if from == to {
		return nil
	}
	if _, err := os.Stat(to); err == nil {
		return fmt.Errorf("rename to %s: %w", newPath, domain.ErrAlreadyExists)
	}

	if err := os.MkdirAll(filepath.Dir(to), 0o755); err != nil {
		return fmt.Errorf("creating note directory: %w", err)
	}
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("renaming note: %w", err)
	}
	return nil
}

func (s *Store) read(path string) (*domain.Note, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(path))
	content, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &domain.Note{
		Path:    path,
		Content: string(content),
		ModTime: info.ModTime(),
	}, nil
}

// resolve maps a vault path to an absolute file path. Paths that are empty,
// absolute, or escape the root are rejected.
func (s *Store) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("note path %q outside vault: %w", path, domain.ErrInvalidInput)
	}
	return filepath.Join(s.root, local), nil
}

// rel converts an absolute file path back to a vault path.
func (s *Store) rel(abs string) (string, bool) {
	r, err := filepath.Rel(s.root, abs)
	if err != nil || !filepath.IsLocal(r) {
		return "", false
	}
	return filepath.ToSlash(r), true
}

func (s *Store) accepts(name string) bool {
	if hidden(name) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range s.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
