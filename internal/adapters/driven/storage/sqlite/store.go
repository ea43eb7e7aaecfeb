package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/notevault/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// Store is an SQLite database holding the vault's notes.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.notevault/data/vault.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".notevault", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vault.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// NoteStore returns a NoteStore interface backed by this store.
func (s *Store) NoteStore() driven.NoteStore {
	return &noteStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_notes.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// schemaVersion returns the highest applied migration.
func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Note Store ====================

// noteStore implements driven.NoteStore.
type noteStore struct {
	store *Store
}

var _ driven.NoteStore = (*noteStore)(nil)

// List returns every note ordered by path.
func (s *noteStore) List(ctx context.Context) ([]domain.Note, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT path, content, mod_time FROM notes ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note //nolint:prealloc // size unknown from query
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}
	return notes, nil
}

// Get retrieves a note by path.
func (s *noteStore) Get(ctx context.Context, path string) (*domain.Note, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT path, content, mod_time FROM notes WHERE path = ?
	`, path)

	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Save creates or overwrites a note.
func (s *noteStore) Save(ctx context.Context, note domain.Note) error {
	if note.Path == "" {
		return fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}
	if note.ModTime.IsZero() {
		note.ModTime = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO notes (path, content, mod_time)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content = excluded.content,
			mod_time = excluded.mod_time
	`, note.Path, note.Content, note.ModTime.UnixNano())
	if err != nil {
		return fmt.Errorf("saving note: %w", err)
	}
	return nil
}

// Delete removes a note.
func (s *noteStore) Delete(ctx context.Context, path string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM notes WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return requireAffected(res)
}

// Rename moves a note to newPath inside a transaction.
func (s *noteStore) Rename(ctx context.Context, oldPath, newPath string) error {
	if newPath == "" {
		return fmt.Errorf("empty note path: %w", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if oldPath != newPath {
		var taken int
		err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes WHERE path = ?", newPath).Scan(&taken)
		if err != nil {
			return fmt.Errorf("checking target: %w", err)
		}
		if taken > 0 {
			return fmt.Errorf("rename to %s: %w", newPath, domain.ErrAlreadyExists)
		}
	}

	res, err := tx.ExecContext(ctx, "UPDATE notes SET path = ? WHERE path = ?", newPath, oldPath)
	if err != nil {
		return fmt.Errorf("renaming note: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rename: %w", err)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (domain.Note, error) {
	var note domain.Note
	var modTime int64
	if err := row.Scan(&note.Path, &note.Content, &modTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return note, err
		}
		return note, fmt.Errorf("scanning note: %w", err)
	}
	note.ModTime = time.Unix(0, modTime).UTC()
	return note, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
