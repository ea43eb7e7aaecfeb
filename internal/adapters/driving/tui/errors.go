package tui

import "errors"

// ErrMissingVaultService is returned when the vault service is not provided.
var ErrMissingVaultService = errors.New("tui: vault service is required")

// ErrInvalidPorts is returned when no ports are supplied.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
