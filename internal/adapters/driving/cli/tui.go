package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notevault/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive search UI",
	Long: `Search the vault as you type.

With the filesystem backend, edits made to the vault while the UI is open
are picked up and reflected in the results.

Controls:
  (type)      Search
  ↑/↓         Move through results
  Enter       Open note
  PgUp/PgDn   Scroll note
  Esc         Back / clear query / quit
  Ctrl+C      Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	vault, err := requireVault()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	stopWatch, err := serveVault(ctx, vault)
	if err != nil {
		return err
	}
	defer stopWatch()

	app, err := tui.NewApp(&tui.Ports{Vault: vault})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx).WithLimit(appSettings.Search.Limit)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
