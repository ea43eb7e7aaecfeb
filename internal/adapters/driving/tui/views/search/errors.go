package search

import "errors"

// ErrNoVaultService indicates that no vault service was provided.
var ErrNoVaultService = errors.New("vault service is required")
