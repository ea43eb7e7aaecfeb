// Package indextest holds the behaviour every driven.SearchIndex must show,
// as test helpers shared by the engine packages.
package indextest

import (
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notevault/internal/adapters/driven/index/tokenize"
	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driven"
)

// Factory returns a fresh, empty index. The helper owns closing it.
type Factory func(t *testing.T) driven.SearchIndex

// Model is a brute-force reference: a path matches when any of its title or
// text terms starts with any query term.
type Model map[string]domain.Document

// Search returns the matching paths in ascending order, never nil.
func (m Model) Search(query string) []string {
	out := []string{}
	queryTerms := tokenize.QueryTerms(query)
	for path, doc := range m {
		terms := append(tokenize.Terms(doc.Title), tokenize.Terms(doc.Text)...)
	next:
		for _, q := range queryTerms {
			for _, term := range terms {
				if strings.HasPrefix(term, q) {
					out = append(out, path)
					break next
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

// SortedPaths returns the paths of matches in ascending order, never nil.
func SortedPaths(matches []driven.IndexMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Path
	}
	sort.Strings(out)
	return out
}

// Run checks the shared contract against indexes built by newIndex.
func Run(t *testing.T, newIndex Factory) {
	t.Run("Boundaries", func(t *testing.T) { testBoundaries(t, newIndex(t)) })
	t.Run("RandomOperations", func(t *testing.T) { RandomOperations(t, newIndex(t), 42) })
}

// testBoundaries checks that terms split on every rune that is not a letter
// or a digit, so punctuation inside words never hides a term.
func testBoundaries(t *testing.T, idx driven.SearchIndex) {
	docs := []domain.Document{
		{Path: "snake.md", Text: "snake_case_name"},
		{Path: "version.md", Text: "see v1.2.3 release"},
		{Path: "quote.md", Title: "don't panic"},
		{Path: "accents.md", Text: "Crème brûlée\u2014à la carte"},
	}
	for _, doc := range docs {
		require.NoError(t, idx.Upsert(doc))
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"case", []string{"snake.md"}},
		{"name", []string{"snake.md"}},
		{"2", []string{"version.md"}},
		{"3", []string{"version.md"}},
		{"t", []string{"quote.md"}},
		{"pan", []string{"quote.md"}},
		{"BRÛ", []string{"accents.md"}},
		{"carte", []string{"accents.md"}},
		{"_", []string{}},
	}
	for _, tt := range tests {
		matches, err := idx.Search(tt.query, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.want, SortedPaths(matches), "query %q", tt.query)
	}
}

// RandomOperations applies a seeded random sequence of upserts and removes
// and compares every search against the model.
func RandomOperations(t *testing.T, idx driven.SearchIndex, seed uint64) {
	words := []string{
		"alpha", "alps", "beta", "bet", "gamma", "gam", "delta", "release", "rel", "notes",
		"snake_case", "v1.2", "don't", "état-major",
	}
	docPaths := []string{"a.md", "b.md", "c.md", "d.md", "e.md", "f.md"}
	rng := rand.New(rand.NewPCG(seed, 7))

	randomText := func() string {
		n := rng.IntN(5)
		parts := make([]string, n)
		for i := range parts {
			w := words[rng.IntN(len(words))]
			if rng.IntN(3) == 0 {
				w = strings.ToUpper(w)
			}
			parts[i] = w
		}
		return strings.Join(parts, " ")
	}
	randomQuery := func() string {
		terms := tokenize.Terms(strings.Join(words, " "))
		q := terms[rng.IntN(len(terms))]
		r := []rune(q)
		return string(r[:1+rng.IntN(len(r))])
	}

	m := Model{}
	for step := 0; step < 2000; step++ {
		path := docPaths[rng.IntN(len(docPaths))]
		if rng.IntN(3) == 0 {
			require.NoError(t, idx.Remove(path))
			delete(m, path)
		} else {
			doc := domain.Document{Path: path, Title: randomText(), Text: randomText()}
			require.NoError(t, idx.Upsert(doc))
			m[path] = doc
		}

		q := randomQuery()
		matches, err := idx.Search(q, 0)
		require.NoError(t, err)
		require.Equal(t, m.Search(q), SortedPaths(matches), "step %d query %q", step, q)
		require.Equal(t, len(m), idx.Len())
	}

	for path := range m {
		require.NoError(t, idx.Remove(path))
	}
	assert.Equal(t, 0, idx.Len())
}
