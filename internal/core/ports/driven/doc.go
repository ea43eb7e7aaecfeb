// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - NoteStore: The vault backend holding the source-of-truth notes
//   - Normaliser: Turns a raw markdown note into an indexable Document
//   - WorkerFactory: Spawns the isolated search worker
//   - SearchWorker: Asynchronous request/response handle on the worker
//   - SearchIndex: The index engine hosted inside the worker
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - NoteWatcher: Change notifications from the vault. Without it the
//     index is only refreshed by explicit saves, deletes and renames.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
