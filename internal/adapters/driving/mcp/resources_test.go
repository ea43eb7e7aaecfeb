package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractNotePath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"notevault://notes/a.md", "a.md"},
		{"notevault://notes/dir/sub/b.md", "dir/sub/b.md"},
		{"notevault://notes/", ""},
		{"other://notes/a.md", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractNotePath(tt.uri), tt.uri)
	}
}

func TestServer_handleNotesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists paths", func(t *testing.T) {
		vault := &mockVaultService{notes: map[string]domain.Note{"dir/a.md": {Path: "dir/a.md"}}}
		server, err := NewServer(&Ports{Vault: vault})
		require.NoError(t, err)

		result, err := server.handleNotesResource(ctx, makeReadResourceRequest("notevault://notes"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"dir/a.md"`)
	})

	t.Run("empty vault", func(t *testing.T) {
		server, err := NewServer(&Ports{Vault: &mockVaultService{}})
		require.NoError(t, err)

		result, err := server.handleNotesResource(ctx, makeReadResourceRequest("notevault://notes"))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("list failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Vault: &mockVaultService{err: errors.New("disk gone")}})
		require.NoError(t, err)

		_, err = server.handleNotesResource(ctx, makeReadResourceRequest("notevault://notes"))
		assert.ErrorContains(t, err, "disk gone")
	})
}

func TestServer_handleNoteResource(t *testing.T) {
	ctx := context.Background()
	vault := &mockVaultService{notes: map[string]domain.Note{"dir/a.md": {Path: "dir/a.md", Content: "# Alpha"}}}
	server, err := NewServer(&Ports{Vault: vault})
	require.NoError(t, err)

	result, err := server.handleNoteResource(ctx, makeReadResourceRequest("notevault://notes/dir/a.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Alpha", result.Contents[0].Text)

	_, err = server.handleNoteResource(ctx, makeReadResourceRequest("notevault://notes/missing.md"))
	assert.Error(t, err)

	_, err = server.handleNoteResource(ctx, makeReadResourceRequest("notevault://notes/"))
	assert.Error(t, err)
}
