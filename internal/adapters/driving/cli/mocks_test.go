package cli

import (
	"bytes"
	"context"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notevault/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driving"
)

type searchCall struct {
	query string
	limit int
}

// mockVaultService implements driving.VaultService for testing.
type mockVaultService struct {
	mu        sync.Mutex
	notes     map[string]domain.Note
	report    domain.LoadReport
	hits      []domain.SearchHit
	loadErr   error
	searchErr error
	mutateErr error
	watchErr  error

	loads    int
	watched  bool
	searches []searchCall
	deleted  []string
	renamed  [][2]string
}

var _ driving.VaultService = (*mockVaultService)(nil)

func newMockVault() *mockVaultService {
	return &mockVaultService{notes: make(map[string]domain.Note)}
}

func (m *mockVaultService) Load(context.Context) (domain.LoadReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return m.report, m.loadErr
}

func (m *mockVaultService) Get(_ context.Context, path string) (*domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &n, nil
}

func (m *mockVaultService) List(context.Context) ([]domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Note, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *mockVaultService) Save(_ context.Context, note domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[note.Path] = note
	return m.mutateErr
}

func (m *mockVaultService) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[path]; !ok {
		return domain.ErrNotFound
	}
	delete(m.notes, path)
	m.deleted = append(m.deleted, path)
	return m.mutateErr
}

func (m *mockVaultService) Rename(_ context.Context, oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[oldPath]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.notes, oldPath)
	n.Path = newPath
	m.notes[newPath] = n
	m.renamed = append(m.renamed, [2]string{oldPath, newPath})
	return m.mutateErr
}

func (m *mockVaultService) Search(_ context.Context, query string, limit int) ([]domain.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, searchCall{query: query, limit: limit})
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockVaultService) Watch(ctx context.Context) error {
	m.mu.Lock()
	m.watched = true
	err := m.watchErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func (m *mockVaultService) wasWatched() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watched
}

// setupTestServices installs a mock vault and an in-memory config store.
func setupTestServices() (*mockVaultService, func()) {
	vault := newMockVault()
	vault.notes["recipes/carbonara.md"] = domain.Note{
		Path:    "recipes/carbonara.md",
		Content: "# Carbonara\n\neggs and pecorino",
		ModTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	SetServices(&Services{
		Vault:    vault,
		Config:   memory.NewConfigStore(nil),
		Settings: domain.DefaultSettings(),
	})
	return vault, func() { SetServices(nil) }
}

// executeCommand runs the root command with args and stdin and returns what
// was written to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	}()

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores flag defaults between runs of the shared root command.
func resetFlags(t *testing.T, cmd *cobra.Command, names ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, name := range names {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				f = cmd.PersistentFlags().Lookup(name)
			}
			require.NotNil(t, f, name)
			require.NoError(t, f.Value.Set(f.DefValue))
			f.Changed = false
		}
	})
}
