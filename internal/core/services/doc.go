// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SearchService is the client facade over the isolated search worker;
// VaultService keeps that index in step with the note store.
package services
