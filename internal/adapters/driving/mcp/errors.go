// Package mcp provides an MCP (Model Context Protocol) server adapter for notevault.
// It lets AI assistants search the vault and read notes.
package mcp

import "errors"

// ErrMissingVaultService is returned when the vault service is not provided.
var ErrMissingVaultService = errors.New("mcp: vault service is required")
