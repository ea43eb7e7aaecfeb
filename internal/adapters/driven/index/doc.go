// Package index groups the search index engines that can be hosted by the
// search worker.
//
//   - native: Inverted index with a rune trie for prefix lookups (default)
//   - bleveindex: In-memory bleve index with prefix queries
//   - tokenize: Shared tokenizer used for documents and queries
//   - indextest: Contract tests run by both engines
//
// Both engines implement driven.SearchIndex and share its contract:
// upsert fully replaces, remove leaves no postings behind, and a blank
// query matches nothing.
package index
