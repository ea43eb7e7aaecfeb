package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/notevault/internal/adapters/driven/config/file"
	"github.com/custodia-labs/notevault/internal/adapters/driven/storage/memory"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration",
	Long: `Shows the effective settings or changes a single key in the config file.

Keys:
  ` + strings.Join(file.KnownKeys, "\n  "),
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration key",
	Long: `Validates and persists one key. Lists are comma separated, for example:

  notevault config set vault.extensions .md,.markdown`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	values := file.SettingsValues(appSettings)
	for _, key := range file.KnownKeys {
		cmd.Printf("%-24s = %s\n", key, formatValue(values[key]))
	}
	return nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case []string:
		quoted := make([]string, len(t))
		for i, s := range t {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprint(t)
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	key, raw := args[0], args[1]

	value, err := file.ParseValue(key, raw)
	if err != nil {
		return err
	}
	// Validate in isolation before touching the file.
	if _, err := file.LoadSettings(memory.NewConfigStore(map[string]any{key: value})); err != nil {
		return err
	}
	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, formatValue(value))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	cmd.Println(configStore.Path())
	return nil
}
