package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigStore_Getters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"vault.root":       "/notes",
		"search.limit":     int64(15),
		"search.ratio":     float64(3),
		"vault.extensions": []any{".md", 7, ".txt"},
		"vault.tags":       []string{"a"},
	})

	assert.Equal(t, "/notes", store.GetString("vault.root"))
	assert.Equal(t, "", store.GetString("search.limit"))
	assert.Equal(t, 15, store.GetInt("search.limit"))
	assert.Equal(t, 3, store.GetInt("search.ratio"))
	assert.Equal(t, 0, store.GetInt("vault.root"))
	assert.Equal(t, []string{".md", ".txt"}, store.GetStringSlice("vault.extensions"))
	assert.Equal(t, []string{"a"}, store.GetStringSlice("vault.tags"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SetAndMetadata(t *testing.T) {
	store := NewConfigStore(nil)
	_, ok := store.Get("search.engine")
	assert.False(t, ok)

	assert.NoError(t, store.Set("search.engine", "bleve"))
	assert.Equal(t, "bleve", store.GetString("search.engine"))
	assert.NoError(t, store.Load())
	assert.NoError(t, store.Save())
	assert.Equal(t, ":memory:", store.Path())
}
