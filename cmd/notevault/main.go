// Command notevault searches a local markdown vault.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/custodia-labs/notevault/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notevault/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/notevault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notevault/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/notevault/internal/adapters/driven/worker"
	"github.com/custodia-labs/notevault/internal/adapters/driving/cli"
	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/core/services"
	"github.com/custodia-labs/notevault/internal/logger"
	"github.com/custodia-labs/notevault/internal/metrics"
	"github.com/custodia-labs/notevault/internal/normalisers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(buildServices)
	if err := cli.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// buildServices wires the configured backend, the search worker and the
// vault service together.
func buildServices(_ context.Context, opts cli.Options) (*cli.Services, error) {
	config, err := openConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settings, err := file.LoadSettings(config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", config.Path(), err)
	}
	if opts.VaultRoot != "" {
		settings.Vault.Root = opts.VaultRoot
	}
	settings.Vault.Root = expandHome(settings.Vault.Root)
	settings.Vault.DataDir = expandHome(settings.Vault.DataDir)

	logger.Section("Bootstrap")
	logger.Debug("Config: %s", config.Path())
	logger.Debug("Backend: %s, root: %s", settings.Vault.Backend, settings.Vault.Root)
	logger.Debug("Engine: %s, isolation: %s", settings.Search.Engine, settings.Search.Isolation)

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var (
		store   driven.NoteStore
		watcher *filesystem.Watcher
	)
	switch settings.Vault.Backend {
	case domain.VaultBackendSQLite:
		db, err := sqlite.NewStore(settings.Vault.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Debug("Database: %s", db.Path())
		closers = append(closers, func() { _ = db.Close() })
		store = db.NoteStore()
	case domain.VaultBackendMemory:
		store = memory.NewNoteStore()
	default:
		fs, err := filesystem.NewStore(settings.Vault.Root, settings.Vault.Extensions)
		if err != nil {
			return nil, err
		}
		store = fs
		watcher, err = fs.Watch(settings.Watch.Debounce)
		if err != nil {
			logger.Warn("file watching disabled: %v", err)
			watcher = nil
		} else {
			closers = append(closers, func() { _ = watcher.Close() })
		}
	}

	m := metrics.New()
	search := services.NewSearchService(worker.Factory(settings.Search, m))
	closers = append(closers, search.DisposeSearchWorker)

	vault := services.NewVaultService(store, normalisers.Default(), search)
	if watcher != nil {
		vault.SetWatcher(watcher)
	}

	return &cli.Services{
		Vault:    vault,
		Config:   config,
		Settings: settings,
		Metrics:  m.Handler(),
		Close:    closeAll,
	}, nil
}

func openConfig(path string) (*file.ConfigStore, error) {
	if path != "" {
		return file.Open(expandHome(path))
	}
	return file.NewConfigStore("")
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
