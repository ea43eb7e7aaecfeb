package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

var (
	noteTitle string
	noteText  string
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes in the vault",
}

var notePutCmd = &cobra.Command{
	Use:   "put [path]",
	Short: "Create or replace a note",
	Long: `Writes a note at path. The body comes from --text, or stdin when --text
is not given. --title prepends YAML frontmatter with the title.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotePut,
}

var noteRmCmd = &cobra.Command{
	Use:   "rm [path]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteRm,
}

var noteMvCmd = &cobra.Command{
	Use:   "mv [old-path] [new-path]",
	Short: "Rename a note",
	Args:  cobra.ExactArgs(2),
	RunE:  runNoteMv,
}

var noteLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List notes",
	Args:  cobra.NoArgs,
	RunE:  runNoteLs,
}

var noteCatCmd = &cobra.Command{
	Use:   "cat [path]",
	Short: "Print a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteCat,
}

func init() {
	notePutCmd.Flags().StringVar(&noteTitle, "title", "", "title written to frontmatter")
	notePutCmd.Flags().StringVar(&noteText, "text", "", "note body (default: read stdin)")

	noteCmd.AddCommand(notePutCmd, noteRmCmd, noteMvCmd, noteLsCmd, noteCatCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNotePut(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	body := noteText
	if !cmd.Flags().Changed("text") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		body = string(data)
	}

	content, err := withTitle(noteTitle, body)
	if err != nil {
		return err
	}

	err = vault.Save(cmd.Context(), domain.Note{Path: args[0], Content: content})
	if err = indexWarning(cmd, err); err != nil {
		return err
	}
	cmd.Printf("Saved %s\n", args[0])
	return nil
}

// withTitle prepends YAML frontmatter carrying title to body.
func withTitle(title, body string) (string, error) {
	if title == "" {
		return body, nil
	}
	fm, err := yaml.Marshal(map[string]string{"title": title})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	return "---\n" + string(fm) + "---\n\n" + strings.TrimLeft(body, "\n"), nil
}

func runNoteRm(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}
	err = vault.Delete(cmd.Context(), args[0])
	if err = indexWarning(cmd, err); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runNoteMv(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}
	err = vault.Rename(cmd.Context(), args[0], args[1])
	if err = indexWarning(cmd, err); err != nil {
		return err
	}
	cmd.Printf("Moved %s -> %s\n", args[0], args[1])
	return nil
}

func runNoteLs(cmd *cobra.Command, _ []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}
	notes, err := vault.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing notes: %w", err)
	}
	if len(notes) == 0 {
		cmd.Println("No notes.")
		return nil
	}
	for _, n := range notes {
		cmd.Printf("%s  %s\n", n.ModTime.Format("2006-01-02 15:04"), n.Path)
	}
	return nil
}

func runNoteCat(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}
	n, err := vault.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	cmd.Print(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		cmd.Println()
	}
	return nil
}

// indexWarning downgrades an unavailable search engine to a warning: the
// vault change itself succeeded.
func indexWarning(cmd *cobra.Command, err error) error {
	if errors.Is(err, domain.ErrSearchUnavailable) {
		cmd.PrintErrln("warning:", err)
		return nil
	}
	return err
}
