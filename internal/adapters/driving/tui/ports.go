// Package tui provides an interactive search-as-you-type terminal interface.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/notevault/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Vault serves searches and note content.
	Vault driving.VaultService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Vault == nil {
		return ErrMissingVaultService
	}
	return nil
}
