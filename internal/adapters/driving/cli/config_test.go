package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notevault/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notevault/internal/core/domain"
)

func setupFileConfig(t *testing.T) *file.ConfigStore {
	t.Helper()
	store, err := file.Open(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	SetServices(&Services{
		Vault:    newMockVault(),
		Config:   store,
		Settings: domain.DefaultSettings(),
	})
	t.Cleanup(func() { SetServices(nil) })
	return store
}

func TestConfigShow(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	appSettings.Vault.Root = "/notes"

	out, _, err := executeCommand(t, "", "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, `vault.root               = "/notes"`)
	assert.Contains(t, out, `vault.extensions         = [".md"]`)
	assert.Contains(t, out, "search.limit             = 20")
	assert.Contains(t, out, "watch.debounce_ms        = 250")
	for _, key := range file.KnownKeys {
		assert.Contains(t, out, key)
	}
}

func TestConfig_DefaultsToShow(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := executeCommand(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "search.engine")
}

func TestConfigSet_Persists(t *testing.T) {
	store := setupFileConfig(t)

	out, _, err := executeCommand(t, "", "config", "set", "search.limit", "5")
	require.NoError(t, err)
	assert.Equal(t, "search.limit = 5\n", out)

	reopened, err := file.Open(store.Path())
	require.NoError(t, err)
	settings, err := file.LoadSettings(reopened)
	require.NoError(t, err)
	assert.Equal(t, 5, settings.Search.Limit)
}

func TestConfigSet_List(t *testing.T) {
	store := setupFileConfig(t)

	out, _, err := executeCommand(t, "", "config", "set", "vault.extensions", ".md,.markdown")
	require.NoError(t, err)
	assert.Equal(t, "vault.extensions = [\".md\", \".markdown\"]\n", out)
	assert.Equal(t, []string{".md", ".markdown"}, store.GetStringSlice(file.KeyVaultExtensions))
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "vault.colour", "blue"},
		{"not a number", "search.limit", "many"},
		{"below minimum", "search.limit", "0"},
		{"unknown backend", "vault.backend", "s3"},
		{"unknown engine", "search.engine", "lucene"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupFileConfig(t)

			_, _, err := executeCommand(t, "", "config", "set", tt.key, tt.value)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			_, ok := store.Get(tt.key)
			assert.False(t, ok)
		})
	}
}

func TestConfigPath(t *testing.T) {
	store := setupFileConfig(t)

	out, _, err := executeCommand(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, store.Path()+"\n", out)
}

func TestConfig_NoStore(t *testing.T) {
	SetServices(&Services{Vault: newMockVault(), Settings: domain.DefaultSettings()})
	defer SetServices(nil)

	_, _, err := executeCommand(t, "", "config", "path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config store not configured")

	_, _, err = executeCommand(t, "", "config", "set", "search.limit", "5")
	require.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, `"native"`, formatValue("native"))
	assert.Equal(t, `[".md", ".txt"]`, formatValue([]string{".md", ".txt"}))
	assert.Equal(t, "[]", formatValue([]string{}))
	assert.Equal(t, "40", formatValue(40))
}
