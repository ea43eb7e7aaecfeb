// Package cli provides the notevault command line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
	"github.com/custodia-labs/notevault/internal/core/ports/driving"
	"github.com/custodia-labs/notevault/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// skipServices marks commands that run without a vault.
const skipServices = "notevault/skip-services"

// Options carries the global flags into the bootstrap hook.
type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string

	// VaultRoot overrides vault.root from the config file.
	VaultRoot string

	Verbose bool
}

// Services are the collaborators commands run against.
type Services struct {
	Vault    driving.VaultService
	Config   driven.ConfigStore
	Settings domain.Settings

	// Metrics is served on /metrics by the HTTP MCP server when set.
	Metrics http.Handler

	// Close releases the worker, watcher and stores.
	Close func()
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	vaultService   driving.VaultService
	configStore    driven.ConfigStore
	appSettings    = domain.DefaultSettings()
	metricsHandler http.Handler
	closeServices  func()

	bootstrap Bootstrap
	options   Options
)

var rootCmd = &cobra.Command{
	Use:   "notevault",
	Short: "Search a local markdown vault",
	Long: `notevault keeps a live full-text index over a vault of markdown notes.

The vault is a directory of files, an SQLite database, or memory. Every
command loads the vault into a fresh in-memory index; nothing is persisted
besides the notes themselves.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.SetOut(os.Stdout)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.ConfigPath, "config", "", "config file (default ~/.notevault/config.toml)")
	flags.StringVar(&options.VaultRoot, "vault", "", "vault directory (overrides vault.root)")
	flags.BoolVarP(&options.Verbose, "verbose", "v", false, "verbose logging to stderr")
}

// SetBootstrap installs the hook that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing the bootstrap hook.
func SetServices(s *Services) {
	if s == nil {
		vaultService, configStore = nil, nil
		appSettings = domain.DefaultSettings()
		metricsHandler, closeServices = nil, nil
		return
	}
	vaultService = s.Vault
	configStore = s.Config
	appSettings = s.Settings
	metricsHandler = s.Metrics
	closeServices = s.Close
}

func preRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(options.Verbose)

	if cmd.Annotations[skipServices] == "true" || bootstrap == nil || vaultService != nil {
		return nil
	}

	s, err := bootstrap(cmd.Context(), options)
	if err != nil {
		return err
	}
	SetServices(s)
	return nil
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command and releases services afterwards.
func ExecuteContext(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			closeServices()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// requireVault returns the vault service or an error when none is configured.
func requireVault() (driving.VaultService, error) {
	if vaultService == nil {
		return nil, errors.New("vault service not configured")
	}
	return vaultService, nil
}

// serveVault loads the vault for a long-running command and keeps the index
// in step with it in the background. An unavailable search engine is not
// fatal: the command starts and reports that state itself. Only the
// filesystem backend has a watcher; without one the background watch ends
// at once.
func serveVault(ctx context.Context, vault driving.VaultService) (stop func(), err error) {
	if _, err := vault.Load(ctx); err != nil && !errors.Is(err, domain.ErrSearchUnavailable) {
		return nil, fmt.Errorf("loading vault: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := vault.Watch(watchCtx); err != nil {
			logger.Debug("watch: %v", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}
