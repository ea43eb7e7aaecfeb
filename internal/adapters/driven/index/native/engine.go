// Package native implements the built-in search index engine: an inverted
// index from term to postings, plus a rune trie so a query term can reach
// every indexed term it prefixes without scanning all documents.
package native

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/notevault/internal/adapters/driven/index/tokenize"
	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.SearchIndex = (*Engine)(nil)

// Scoring weights. A hit scores freq*boost per field, halved when the query
// term only prefixes the indexed term. Ties are ordered by path ascending.
const (
	titleBoost    = 2.0
	textBoost     = 1.0
	prefixPenalty = 0.5
)

// posting counts the occurrences of one term in one document, per field.
type posting struct {
	title int
	text  int
}

func (p posting) weight() float64 {
	return float64(p.title)*titleBoost + float64(p.text)*textBoost
}

type entry struct {
	doc   domain.Document
	terms map[string]posting
}

// Engine is an in-memory inverted index. It is not safe for concurrent use;
// the search worker that owns it serialises all access.
type Engine struct {
	docs     map[string]*entry
	postings map[string]map[string]posting // term -> path -> counts
	terms    *trie
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		docs:     make(map[string]*entry),
		postings: make(map[string]map[string]posting),
		terms:    newTrie(),
	}
}

// Upsert indexes doc. An existing document with the same path is removed
// first, so terms that only appeared in the old version stop matching.
func (e *Engine) Upsert(doc domain.Document) error {
	if doc.Path == "" {
		return fmt.Errorf("upsert: empty path: %w", domain.ErrInvalidInput)
	}
	e.remove(doc.Path)

	terms := make(map[string]posting)
	for _, term := range tokenize.Terms(doc.Title) {
		p := terms[term]
		p.title++
		terms[term] = p
	}
	for _, term := range tokenize.Terms(doc.Text) {
		p := terms[term]
		p.text++
		terms[term] = p
	}

	for term, p := range terms {
		paths, ok := e.postings[term]
		if !ok {
			paths = make(map[string]posting)
			e.postings[term] = paths
			e.terms.insert(term)
		}
		paths[doc.Path] = p
	}
	e.docs[doc.Path] = &entry{doc: doc, terms: terms}

	return nil
}

// Remove deletes path and every posting that refers to it.
func (e *Engine) Remove(path string) error {
	e.remove(path)
	return nil
}

func (e *Engine) remove(path string) {
	old, ok := e.docs[path]
	if !ok {
		return
	}
	for term := range old.terms {
		paths := e.postings[term]
		delete(paths, path)
		if len(paths) == 0 {
			delete(e.postings, term)
			e.terms.remove(term)
		}
	}
	delete(e.docs, path)
}

// Search returns up to limit documents where some indexed term equals or
// starts with a query term. A limit <= 0 means domain.DefaultSearchLimit.
func (e *Engine) Search(query string, limit int) ([]driven.IndexMatch, error) {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	queryTerms := tokenize.QueryTerms(query)
	if len(queryTerms) == 0 {
		return []driven.IndexMatch{}, nil
	}

	scores := make(map[string]float64)
	for _, q := range queryTerms {
		e.terms.walk(q, func(term string) {
			for path, p := range e.postings[term] {
				w := p.weight()
				if term != q {
					w *= prefixPenalty
				}
				scores[path] += w
			}
		})
	}

	matches := make([]driven.IndexMatch, 0, len(scores))
	for path, score := range scores {
		matches = append(matches, driven.IndexMatch{Path: path, Score: score})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Path < matches[j].Path
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Get returns the indexed document for path.
func (e *Engine) Get(path string) (domain.Document, bool) {
	ent, ok := e.docs[path]
	if !ok {
		return domain.Document{}, false
	}
	return ent.doc, true
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	return len(e.docs)
}

// TermCount returns the number of distinct live terms.
func (e *Engine) TermCount() int {
	return e.terms.size
}

// Close releases resources. The engine holds nothing outside the heap.
func (e *Engine) Close() error {
	return nil
}
