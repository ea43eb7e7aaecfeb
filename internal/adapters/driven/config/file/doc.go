// Package file provides the TOML configuration store and maps its keys onto
// typed application settings.
//
// Nested tables are flattened into dotted keys on load:
//
//	[search]
//	engine = "bleve"
//
// is read back as "search.engine".
package file
