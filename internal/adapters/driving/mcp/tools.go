package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"words to look for; the last word may be a prefix"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return, capped by the server's search.limit (default 20)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// GetNoteInput is the input schema for the get_note tool.
type GetNoteInput struct {
	Path string `json:"path" jsonschema:"vault path of the note, as returned by search"`
}

// GetNoteOutput is the output schema for the get_note tool.
type GetNoteOutput struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Modified string `json:"modified,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Full-text search over the note vault. Titles rank above body text.",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_note",
		Description: "Read the raw markdown of a note by its vault path",
	}, s.handleGetNote)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := domain.ClampSearchLimit(input.Limit, s.ports.Limit)

	hits, err := s.ports.Vault.Search(ctx, input.Query, limit)
	if err != nil {
		if errors.Is(err, domain.ErrSearchUnavailable) {
			return nil, SearchOutput{}, errors.New("search is unavailable on this host")
		}
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}
	for i, hit := range hits {
		output.Results[i] = SearchResultOutput{
			Path:    hit.Path,
			Title:   hit.Title,
			Snippet: hit.Snippet,
		}
	}

	return nil, output, nil
}

// handleGetNote handles the get_note tool invocation.
func (s *Server) handleGetNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetNoteInput,
) (*mcp.CallToolResult, GetNoteOutput, error) {
	if input.Path == "" {
		return nil, GetNoteOutput{}, errors.New("path is required")
	}

	note, err := s.ports.Vault.Get(ctx, input.Path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, GetNoteOutput{}, fmt.Errorf("note %q not found", input.Path)
		}
		return nil, GetNoteOutput{}, err
	}

	out := GetNoteOutput{Path: note.Path, Content: note.Content}
	if !note.ModTime.IsZero() {
		out.Modified = note.ModTime.UTC().Format(time.RFC3339)
	}
	return nil, out, nil
}
