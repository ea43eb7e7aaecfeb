package mcp

import (
	"net/http"

	"github.com/custodia-labs/notevault/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server needs.
type Ports struct {
	// Vault provides note access and search.
	Vault driving.VaultService

	// Metrics is served on /metrics in HTTP mode. Optional.
	Metrics http.Handler

	// Limit is the default number of search results. Zero means
	// domain.DefaultSearchLimit.
	Limit int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Vault == nil {
		return ErrMissingVaultService
	}
	return nil
}
