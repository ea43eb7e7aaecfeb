package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes in the vault",
	Long: `Loads the vault into the index and prints the notes matching the query.

Every word of the query matches as a prefix, so "carb" finds "carbonara".
Title matches rank above body matches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results, at most search.limit (0 = search.limit)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	limit := domain.ClampSearchLimit(searchLimit, appSettings.Search.Limit)

	hits := []domain.SearchHit{}
	if _, err := vault.Load(ctx); err != nil {
		if !errors.Is(err, domain.ErrSearchUnavailable) {
			return fmt.Errorf("loading vault: %w", err)
		}
		cmd.PrintErrln("search unavailable:", err)
	} else {
		hits, err = vault.Search(ctx, query, limit)
		if errors.Is(err, domain.ErrSearchUnavailable) {
			cmd.PrintErrln("search unavailable:", err)
			hits = []domain.SearchHit{}
		} else if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}
	return outputSearchTable(cmd, hits)
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.SearchHit) error {
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// hitStyles renders search output; zero styles print plain text.
type hitStyles struct {
	title   lipgloss.Style
	path    lipgloss.Style
	snippet lipgloss.Style
}

func stylesFor(w io.Writer) hitStyles {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return hitStyles{}
	}
	return hitStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		path:    lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
		snippet: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

func outputSearchTable(cmd *cobra.Command, hits []domain.SearchHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	for i, hit := range hits {
		title := hit.Title
		if title == "" {
			title = hit.Path
		}
		cmd.Printf("[%d] %s  %s\n", i+1, st.title.Render(title), st.path.Render(hit.Path))
		if snippet := strings.Join(strings.Fields(hit.Snippet), " "); snippet != "" {
			cmd.Printf("    %s\n", st.snippet.Render(snippet))
		}
	}
	return nil
}
