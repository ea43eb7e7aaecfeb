package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewStore(root, nil)
	require.NoError(t, err)
	return store, root
}

func TestNewStore_Validation(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)

	root := t.TempDir()
	writeFile(t, root, "file.md", "x")
	_, err = NewStore(filepath.Join(root, "file.md"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_NormalisesExtensions(t *testing.T) {
	store, err := NewStore(t.TempDir(), []string{"MD", " .txt ", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{".md", ".txt"}, store.extensions)

	store, err = NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{".md"}, store.extensions)
}

func TestStore_List(t *testing.T) {
	store, root := newTestStore(t)
	writeFile(t, root, "b.md", "bee")
	writeFile(t, root, "a.md", "ay")
	writeFile(t, root, "sub/c.MD", "see")
	writeFile(t, root, "notes.txt", "ignored")
	writeFile(t, root, ".obsidian/workspace.md", "hidden dir")
	writeFile(t, root, ".draft.md", "hidden file")

	notes, err := store.List(context.Background())
	require.NoError(t, err)

	paths := make([]string, 0, len(notes))
	for _, n := range notes {
		paths = append(paths, n.Path)
	}
	assert.Equal(t, []string{"a.md", "b.md", "sub/c.MD"}, paths)
	assert.Equal(t, "ay", notes[0].Content)
	assert.False(t, notes[0].ModTime.IsZero())
}

func TestStore_ListManyFiles(t *testing.T) {
	store, root := newTestStore(t)
	for i := range 50 {
		writeFile(t, root, filepath.Join("d", string(rune('a'+i%26))+string(rune('a'+i/26))+".md"), "x")
	}

	notes, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, notes, 50)
}

func TestStore_ListCancelled(t *testing.T) {
	store, root := newTestStore(t)
	writeFile(t, root, "a.md", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_SaveAndGet(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	mod := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, store.Save(ctx, domain.Note{Path: "deep/dir/n.md", Content: "hello", ModTime: mod}))
	assert.FileExists(t, filepath.Join(root, "deep", "dir", "n.md"))

	got, err := store.Get(ctx, "deep/dir/n.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.True(t, mod.Equal(got.ModTime))
}

func TestStore_SaveRejects(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"", "../escape.md", "/abs.md", "note.txt"} {
		err := store.Save(ctx, domain.Note{Path: p, Content: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, p)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Get(context.Background(), "../x.md")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_Delete(t *testing.T) {
	store, root := newTestStore(t)
	writeFile(t, root, "a.md", "x")

	require.NoError(t, store.Delete(context.Background(), "a.md"))
	assert.NoFileExists(t, filepath.Join(root, "a.md"))
	assert.ErrorIs(t, store.Delete(context.Background(), "a.md"), domain.ErrNotFound)
}

func TestStore_Rename(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()
	writeFile(t, root, "a.md", "alpha")
	writeFile(t, root, "b.md", "beta")

	assert.ErrorIs(t, store.Rename(ctx, "missing.md", "c.md"), domain.ErrNotFound)
	assert.ErrorIs(t, store.Rename(ctx, "a.md", "b.md"), domain.ErrAlreadyExists)
	assert.ErrorIs(t, store.Rename(ctx, "a.md", "a.txt"), domain.ErrInvalidInput)

	require.NoError(t, store.Rename(ctx, "a.md", "moved/a.md"))
	assert.NoFileExists(t, filepath.Join(root, "a.md"))

	got, err := store.Get(ctx, "moved/a.md")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Content)
}
