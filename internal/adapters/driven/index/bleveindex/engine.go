// Package bleveindex implements driven.SearchIndex on an in-memory bleve index.
// It is an alternative to the native engine, selected with
// search.engine = "bleve".
package bleveindex

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/custodia-labs/notevault/internal/adapters/driven/index/tokenize"
	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.SearchIndex = (*Engine)(nil)

const (
	analyzerName  = "notevault"
	tokenizerName = "notevault_terms"

	// termPattern mirrors tokenize.Tokens: a term is a run of letters and
	// decimal digits.
	termPattern = `[\p{L}\p{Nd}]+`

	fieldTitle = "title"
	fieldText  = "text"
	titleBoost = 2.0
)

// Engine wraps a memory-only bleve index. bleve keeps the inverted index;
// the documents themselves are held in a side map for Get and snippets.
type Engine struct {
	index bleve.Index
	docs  map[string]domain.Document
}

// New creates an empty memory-only bleve index. Terms are runs of letters
// and digits, lowercased, with no stemming or stop words: the same terms
// the native engine indexes.
func New() (*Engine, error) {
	mapping := bleve.NewIndexMapping()
	err := mapping.AddCustomTokenizer(tokenizerName, map[string]interface{}{
		"type":   regexp.Name,
		"regexp": termPattern,
	})
	if err != nil {
		return nil, fmt.Errorf("register tokenizer: %w", err)
	}
	err = mapping.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     tokenizerName,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}
	mapping.DefaultAnalyzer = analyzerName

	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}

	return &Engine{
		index: index,
		docs:  make(map[string]domain.Document),
	}, nil
}

// Upsert indexes doc, replacing any document with the same path.
func (e *Engine) Upsert(doc domain.Document) error {
	if doc.Path == "" {
		return fmt.Errorf("upsert: empty path: %w", domain.ErrInvalidInput)
	}
	fields := map[string]interface{}{
		fieldTitle: doc.Title,
		fieldText:  doc.Text,
	}
	if err := e.index.Index(doc.Path, fields); err != nil {
		return fmt.Errorf("bleve index %s: %w", doc.Path, err)
	}
	e.docs[doc.Path] = doc
	return nil
}

// Remove deletes path from the index. Unknown paths are ignored.
func (e *Engine) Remove(path string) error {
	if _, ok := e.docs[path]; !ok {
		return nil
	}
	if err := e.index.Delete(path); err != nil {
		return fmt.Errorf("bleve delete %s: %w", path, err)
	}
	delete(e.docs, path)
	return nil
}

// Search matches documents with a title or text term starting with any
// query term, ordered by bleve score then path.
func (e *Engine) Search(q string, limit int) ([]driven.IndexMatch, error) {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	terms := tokenize.QueryTerms(q)
	if len(terms) == 0 {
		return []driven.IndexMatch{}, nil
	}

	clauses := make([]query.Query, 0, len(terms)*2)
	for _, term := range terms {
		title := bleve.NewPrefixQuery(term)
		title.SetField(fieldTitle)
		title.SetBoost(titleBoost)

		text := bleve.NewPrefixQuery(term)
		text.SetField(fieldText)

		clauses = append(clauses, title, text)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(clauses...), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := e.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	matches := make([]driven.IndexMatch, 0, len(res.Hits))
	for _, hit := range res.Hits {
		matches = append(matches, driven.IndexMatch{Path: hit.ID, Score: hit.Score})
	}
	return matches, nil
}

// Get returns the indexed document for path.
func (e *Engine) Get(path string) (domain.Document, bool) {
	doc, ok := e.docs[path]
	return doc, ok
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	return len(e.docs)
}

// Close releases the bleve index.
func (e *Engine) Close() error {
	return e.index.Close()
}
