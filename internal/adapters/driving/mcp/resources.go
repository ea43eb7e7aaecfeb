package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/notevault/internal/core/domain"
)

// uriScheme is the custom URI scheme for notevault resources.
const uriScheme = "notevault://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "notes",
		Name:        "notes",
		Description: "Paths of every note in the vault",
		MIMEType:    "application/json",
	}, s.handleNotesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "notes/{+path}",
		Name:        "note-content",
		Description: "Raw markdown of a note",
		MIMEType:    "text/markdown",
	}, s.handleNoteResource)
}

// handleNotesResource lists every note path.
func (s *Server) handleNotesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	notes, err := s.ports.Vault.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	paths := make([]string, len(notes))
	for i := range notes {
		paths[i] = notes[i].Path
	}

	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling notes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleNoteResource returns the content of one note.
func (s *Server) handleNoteResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	path := extractNotePath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	note, err := s.ports.Vault.Get(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading note: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     note.Content,
		}},
	}, nil
}

// extractNotePath extracts the note path from notevault://notes/{path}.
func extractNotePath(uri string) string {
	const prefix = uriScheme + "notes/"
	path, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return ""
	}
	return path
}
