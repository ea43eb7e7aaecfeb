package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "vault.db"), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	v, err := store.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestNewStore_ReopenKeepsNotes(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.NoteStore().Save(ctx, domain.Note{Path: "a.md", Content: "alpha"}))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	note, err := store.NoteStore().Get(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, "alpha", note.Content)

	v, err := store.schemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestNoteStore_SaveAndGet(t *testing.T) {
	notes := setupTestStore(t).NoteStore()
	ctx := context.Background()

	mod := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, notes.Save(ctx, domain.Note{Path: "a.md", Content: "# A\nbody", ModTime: mod}))

	got, err := notes.Get(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, "a.md", got.Path)
	assert.Equal(t, "# A\nbody", got.Content)
	assert.True(t, mod.Equal(got.ModTime))
}

func TestNoteStore_SaveOverwrites(t *testing.T) {
	notes := setupTestStore(t).NoteStore()
	ctx := context.Background()

	require.NoError(t, notes.Save(ctx, domain.Note{Path: "a.md", Content: "old"}))
	require.NoError(t, notes.Save(ctx, domain.Note{Path: "a.md", Content: "new"}))

	got, err := notes.Get(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Content)
	assert.False(t, got.ModTime.IsZero())
}

func TestNoteStore_SaveEmptyPath(t *testing.T) {
	notes := setupTestStore(t).NoteStore()

	err := notes.Save(context.Background(), domain.Note{Content: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNoteStore_GetNotFound(t *testing.T) {
	notes := setupTestStore(t).NoteStore()

	_, err := notes.Get(context.Background(), "missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteStore_ListOrdered(t *testing.T) {
	notes := setupTestStore(t).NoteStore()
	ctx := context.Background()

	for _, p := range []string{"c.md", "a.md", "b/d.md"} {
		require.NoError(t, notes.Save(ctx, domain.Note{Path: p, Content: p}))
	}

	list, err := notes.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a.md", list[0].Path)
	assert.Equal(t, "b/d.md", list[1].Path)
	assert.Equal(t, "c.md", list[2].Path)
}

func TestNoteStore_ListEmpty(t *testing.T) {
	notes := setupTestStore(t).NoteStore()

	list, err := notes.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNoteStore_Delete(t *testing.T) {
	notes := setupTestStore(t).NoteStore()
	ctx := context.Background()

	require.NoError(t, notes.Save(ctx, domain.Note{Path: "a.md", Content: "x"}))
	require.NoError(t, notes.Delete(ctx, "a.md"))

	_, err := notes.Get(ctx, "a.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, notes.Delete(ctx, "a.md"), domain.ErrNotFound)
}

func TestNoteStore_Rename(t *testing.T) {
	notes := setupTestStore(t).NoteStore()
	ctx := context.Background()

	require.NoError(t, notes.Save(ctx, domain.Note{Path: "old.md", Content: "body"}))
	require.NoError(t, notes.Rename(ctx, "old.md", "new.md"))

	_, err := notes.Get(ctx, "old.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := notes.Get(ctx, "new.md")
	require.NoError(t, err)
	assert.Equal(t, "body", got.Content)
}

func TestNoteStore_RenameErrors(t *testing.T) {
	notes := setupTestStore(t).NoteStore()
	ctx := context.Background()

	require.NoError(t, notes.Save(ctx, domain.Note{Path: "a.md", Content: "a"}))
	require.NoError(t, notes.Save(ctx, domain.Note{Path: "b.md", Content: "b"}))

	assert.ErrorIs(t, notes.Rename(ctx, "missing.md", "c.md"), domain.ErrNotFound)
	assert.ErrorIs(t, notes.Rename(ctx, "a.md", "b.md"), domain.ErrAlreadyExists)
	assert.ErrorIs(t, notes.Rename(ctx, "a.md", ""), domain.ErrInvalidInput)

	// Failed renames leave both notes in place.
	got, err := notes.Get(ctx, "a.md")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Content)
}
