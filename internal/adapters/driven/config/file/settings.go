package file

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// Configuration keys understood by LoadSettings.
const (
	KeyVaultRoot       = "vault.root"
	KeyVaultBackend    = "vault.backend"
	KeyVaultExtensions = "vault.extensions"
	KeyVaultDataDir    = "vault.data_dir"
	KeySearchEngine    = "search.engine"
	KeySearchIsolation = "search.isolation"
	KeySearchLimit     = "search.limit"
	KeySearchCacheSize = "search.cache_size"
	KeySnippetContext  = "search.snippet_context"
	KeySnippetHead     = "search.snippet_head"
	KeyWatchDebounceMS = "watch.debounce_ms"
)

// KnownKeys lists every configuration key in display order.
var KnownKeys = []string{
	KeyVaultRoot,
	KeyVaultBackend,
	KeyVaultExtensions,
	KeyVaultDataDir,
	KeySearchEngine,
	KeySearchIsolation,
	KeySearchLimit,
	KeySearchCacheSize,
	KeySnippetContext,
	KeySnippetHead,
	KeyWatchDebounceMS,
}

// LoadSettings maps store keys onto domain.Settings. Missing keys keep
// their defaults. Unknown backends or engines and out-of-range numbers are
// rejected with domain.ErrInvalidInput. The isolation mode is passed through
// unchecked; the worker factory decides whether it can honour it.
func LoadSettings(store driven.ConfigStore) (domain.Settings, error) {
	s := domain.DefaultSettings()

	if v := store.GetString(KeyVaultRoot); v != "" {
		s.Vault.Root = v
	}
	if v := store.GetString(KeyVaultBackend); v != "" {
		s.Vault.Backend = domain.VaultBackend(strings.ToLower(v))
		if !s.Vault.Backend.IsValid() {
			return s, fmt.Errorf("%s = %q: %w", KeyVaultBackend, v, domain.ErrInvalidInput)
		}
	}
	if exts := stringList(store, KeyVaultExtensions); len(exts) > 0 {
		s.Vault.Extensions = exts
	}
	if v := store.GetString(KeyVaultDataDir); v != "" {
		s.Vault.DataDir = v
	}

	if v := store.GetString(KeySearchEngine); v != "" {
		s.Search.Engine = domain.SearchEngine(strings.ToLower(v))
		if !s.Search.Engine.IsValid() {
			return s, fmt.Errorf("%s = %q: %w", KeySearchEngine, v, domain.ErrInvalidInput)
		}
	}
	if v := store.GetString(KeySearchIsolation); v != "" {
		s.Search.Isolation = domain.Isolation(strings.ToLower(v))
	}

	ints := []struct {
		key string
		dst *int
		min int
	}{
		{KeySearchLimit, &s.Search.Limit, 1},
		{KeySearchCacheSize, &s.Search.CacheSize, 0},
		{KeySnippetContext, &s.Search.SnippetContext, 0},
		{KeySnippetHead, &s.Search.SnippetHead, 0},
	}
	for _, in := range ints {
		if _, ok := store.Get(in.key); !ok {
			continue
		}
		v := store.GetInt(in.key)
		if v < in.min {
			return s, fmt.Errorf("%s = %d, want >= %d: %w", in.key, v, in.min, domain.ErrInvalidInput)
		}
		*in.dst = v
	}

	if _, ok := store.Get(KeyWatchDebounceMS); ok {
		ms := store.GetInt(KeyWatchDebounceMS)
		if ms < 0 {
			return s, fmt.Errorf("%s = %d: %w", KeyWatchDebounceMS, ms, domain.ErrInvalidInput)
		}
		s.Watch.Debounce = time.Duration(ms) * time.Millisecond
	}

	return s, nil
}

// stringList accepts either a TOML array or a comma separated string.
func stringList(store driven.ConfigStore, key string) []string {
	if list := store.GetStringSlice(key); len(list) > 0 {
		return list
	}
	raw := store.GetString(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseValue converts a command-line value for key into the type the
// store expects: integers for numeric keys, a list for extensions and a
// string otherwise. Unknown keys are rejected.
func ParseValue(key, raw string) (any, error) {
	if !slices.Contains(KnownKeys, key) {
		return nil, fmt.Errorf("unknown key %q: %w", key, domain.ErrInvalidInput)
	}
	switch key {
	case KeySearchLimit, KeySearchCacheSize, KeySnippetContext, KeySnippetHead, KeyWatchDebounceMS:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s = %q is not an integer: %w", key, raw, domain.ErrInvalidInput)
		}
		return n, nil
	case KeyVaultExtensions:
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}

// SettingsValues flattens s back into dotted keys, the inverse of LoadSettings.
func SettingsValues(s domain.Settings) map[string]any {
	return map[string]any{
		KeyVaultRoot:       s.Vault.Root,
		KeyVaultBackend:    string(s.Vault.Backend),
		KeyVaultExtensions: slices.Clone(s.Vault.Extensions),
		KeyVaultDataDir:    s.Vault.DataDir,
		KeySearchEngine:    string(s.Search.Engine),
		KeySearchIsolation: string(s.Search.Isolation),
		KeySearchLimit:     s.Search.Limit,
		KeySearchCacheSize: s.Search.CacheSize,
		KeySnippetContext:  s.Search.SnippetContext,
		KeySnippetHead:     s.Search.SnippetHead,
		KeyWatchDebounceMS: int(s.Watch.Debounce / time.Millisecond),
	}
}
