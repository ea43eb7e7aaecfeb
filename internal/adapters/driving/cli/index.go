package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the vault and report the outcome",
	Long: `Loads every note into the search index and reports how many were
indexed and how many failed. Notes that fail to parse are skipped, not fatal.

With --watch the command keeps running and applies file changes to the
index until interrupted. Watching needs the filesystem backend.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep the index in step with the vault")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	report, err := vault.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading vault: %w", err)
	}
	cmd.Printf("Indexed %d notes (%d failed)\n", report.Indexed, report.Failed)

	if !indexWatch {
		return nil
	}

	cmd.Println("Watching for changes, press Ctrl+C to stop.")
	if err := vault.Watch(ctx); err != nil {
		return fmt.Errorf("watching vault: %w", err)
	}
	return nil
}
