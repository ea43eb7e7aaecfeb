package domain

import "time"

// VaultBackend identifies where notes are persisted.
type VaultBackend string

// Available vault backends.
const (
	// VaultBackendFilesystem stores notes as files in a directory tree.
	VaultBackendFilesystem VaultBackend = "filesystem"

	// VaultBackendSQLite stores notes in a local SQLite database.
	VaultBackendSQLite VaultBackend = "sqlite"

	// VaultBackendMemory keeps notes in memory for the life of the process.
	VaultBackendMemory VaultBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VaultBackend) IsValid() bool {
	switch b {
	case VaultBackendFilesystem, VaultBackendSQLite, VaultBackendMemory:
		return true
	default:
		return false
	}
}

// SearchEngine identifies the index implementation hosted by the worker.
type SearchEngine string

// Available search engines.
const (
	// SearchEngineNative is the built-in inverted index with a prefix trie.
	SearchEngineNative SearchEngine = "native"

	// SearchEngineBleve is an in-memory bleve index.
	SearchEngineBleve SearchEngine = "bleve"
)

// IsValid returns true if the engine is recognised.
func (e SearchEngine) IsValid() bool {
	return e == SearchEngineNative || e == SearchEngineBleve
}

// Isolation identifies how the search worker is executed.
type Isolation string

// Available isolation modes.
const (
	// IsolationGoroutine runs the worker on its own goroutine behind a channel.
	IsolationGoroutine Isolation = "goroutine"

	// IsolationNone disables the worker. Search is then unavailable.
	IsolationNone Isolation = "none"
)

// VaultSettings configures the note vault.
type VaultSettings struct {
	Root       string
	Backend    VaultBackend
	Extensions []string
	DataDir    string
}

// SearchSettings configures the search worker.
type SearchSettings struct {
	Engine         SearchEngine
	Isolation      Isolation
	Limit          int
	CacheSize      int
	SnippetContext int
	SnippetHead    int
}

// WatchSettings configures the vault watcher.
type WatchSettings struct {
	Debounce time.Duration
}

// Settings is the complete application configuration.
type Settings struct {
	Vault  VaultSettings
	Search SearchSettings
	Watch  WatchSettings
}

// DefaultSettings returns the configuration used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		Vault: VaultSettings{
			Root:       ".",
			Backend:    VaultBackendFilesystem,
			Extensions: []string{".md"},
		},
		Search: SearchSettings{
			Engine:         SearchEngineNative,
			Isolation:      IsolationGoroutine,
			Limit:          DefaultSearchLimit,
			CacheSize:      128,
			SnippetContext: 40,
			SnippetHead:    160,
		},
		Watch: WatchSettings{
			Debounce: 250 * time.Millisecond,
		},
	}
}
