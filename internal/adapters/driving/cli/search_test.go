package cli

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := executeCommand(t, "", "search")
	assert.Error(t, err)
}

func TestSearchCmd_PrintsTable(t *testing.T) {
	vault, cleanup := setupTestServices()
	defer cleanup()
	vault.hits = []domain.SearchHit{
		{Path: "recipes/carbonara.md", Title: "Carbonara", Snippet: "eggs and\n pecorino"},
		{Path: "inbox.md", Snippet: "carbonara later"},
	}

	out, _, err := executeCommand(t, "", "search", "carb", "eggs")
	require.NoError(t, err)

	assert.Contains(t, out, "[1] Carbonara  recipes/carbonara.md")
	assert.Contains(t, out, "    eggs and pecorino")
	assert.Contains(t, out, "[2] inbox.md  inbox.md")
	assert.Equal(t, 1, vault.loads)
	require.Len(t, vault.searches, 1)
	assert.Equal(t, "carb eggs", vault.searches[0].query)
	assert.Equal(t, domain.DefaultSearchLimit, vault.searches[0].limit)
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := executeCommand(t, "", "search", "nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_LimitFlag(t *testing.T) {
	vault, cleanup := setupTestServices()
	defer cleanup()
	resetFlags(t, searchCmd, "limit")

	_, _, err := executeCommand(t, "", "search", "-n", "3", "carb")
	require.NoError(t, err)
	require.Len(t, vault.searches, 1)
	assert.Equal(t, 3, vault.searches[0].limit)
}

func TestSearchCmd_LimitFromSettings(t *testing.T) {
	vault, cleanup := setupTestServices()
	defer cleanup()
	appSettings.Search.Limit = 7

	_, _, err := executeCommand(t, "", "search", "carb")
	require.NoError(t, err)
	require.Len(t, vault.searches, 1)
	assert.Equal(t, 7, vault.searches[0].limit)
}

func TestSearchCmd_LimitCappedBySettings(t *testing.T) {
	vault, cleanup := setupTestServices()
	defer cleanup()
	resetFlags(t, searchCmd, "limit")
	appSettings.Search.Limit = 7

	_, _, err := executeCommand(t, "", "search", "--limit", "50", "carb")
	require.NoError(t, err)
	require.Len(t, vault.searches, 1)
	assert.Equal(t, 7, vault.searches[0].limit)

	f := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, f)
	assert.Contains(t, f.Usage, "at most search.limit")
}

func TestSearchCmd_JSON(t *testing.T) {
	vault, cleanup := setupTestServices()
	defer cleanup()
	resetFlags(t, searchCmd, "json")
	vault.hits = []domain.SearchHit{{Path: "a.md", Title: "A", Snippet: "alpha"}}

	out, _, err := executeCommand(t, "", "search", "--json", "alpha")
	require.NoError(t, err)

	var hits []domain.SearchHit
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	assert.Equal(t, vault.hits, hits)
}

func TestSearchCmd_JSONEmptyIsArray(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	resetFlags(t, searchCmd, "json")

	out, _, err := executeCommand(t, "", "search", "--json", "nothing")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestSearchCmd_UnavailableOnLoad(t *testing.T) {
	vault, cleanup := setupTestServices()
	defer cleanup()
	vault.loadErr = domain.ErrSearchUnavailable

	out, errOut, err := executeCommand(t, "", "search", "carb")
	require.NoError(t, err)
	assert.Contains(t, errOut, "search unavailable")
	assert.Contains(t, out, "No results found.")
	assert.Empty(t, vault.searches)
}

func TestSearchCmd_UnavailableOnSearch(t *testing.T) {
	vault, cleanup := setupTestServices()
	defer cleanup()
	vault.searchErr = domain.ErrSearchUnavailable

	out, errOut, err := executeCommand(t, "", "search", "carb")
	require.NoError(t, err)
	assert.Contains(t, errOut, "search unavailable")
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_Errors(t *testing.T) {
	t.Run("load", func(t *testing.T) {
		vault, cleanup := setupTestServices()
		defer cleanup()
		vault.loadErr = errors.New("disk gone")

		_, _, err := executeCommand(t, "", "search", "carb")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading vault")
	})

	t.Run("search", func(t *testing.T) {
		vault, cleanup := setupTestServices()
		defer cleanup()
		vault.searchErr = domain.ErrCorrelation

		_, _, err := executeCommand(t, "", "search", "carb")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
		assert.ErrorIs(t, err, domain.ErrCorrelation)
	})
}

func TestSearchCmd_NoVault(t *testing.T) {
	SetServices(nil)

	_, _, err := executeCommand(t, "", "search", "carb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault service not configured")
}

func TestStylesFor_NonTerminalIsPlain(t *testing.T) {
	st := stylesFor(io.Discard)
	assert.Equal(t, "title", st.title.Render("title"))
}
