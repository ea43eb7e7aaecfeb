// Package snippet extracts short excerpts of note text around a query match.
package snippet

import "unicode"

// Default window sizes, in runes.
const (
	DefaultContext = 40
	DefaultHead    = 160
)

// Extractor builds snippets. Context is the number of runes kept on each
// side of a match; Head is the excerpt length used when nothing matches.
type Extractor struct {
	Context int
	Head    int
}

// Default returns an Extractor with the default window sizes.
func Default() Extractor {
	return Extractor{Context: DefaultContext, Head: DefaultHead}
}

// Make returns a snippet using the default window sizes.
func Make(text, query string) string {
	return Default().Make(text, query)
}

// Make returns the text around the first case-insensitive occurrence of
// query, or the head of text when query is empty or absent.
// The result is never longer than MaxLen(query) runes.
func (x Extractor) Make(text, query string) string {
	ctx, head := x.Context, x.Head
	if ctx < 0 {
		ctx = 0
	}
	if head < 0 {
		head = 0
	}

	hay := []rune(text)
	needle := []rune(query)

	start := indexFold(hay, needle)
	if start < 0 {
		return string(hay[:min(head, len(hay))])
	}

	from := max(0, start-ctx)
	to := min(len(hay), start+len(needle)+ctx)
	return string(hay[from:to])
}

// MaxLen is the upper bound, in runes, on any snippet produced for query.
func (x Extractor) MaxLen(query string) int {
	return max(2*max(x.Context, 0)+len([]rune(query)), max(x.Head, 0))
}

// indexFold returns the rune offset of the first case-insensitive match of
// needle in hay, or -1. An empty needle never matches.
func indexFold(hay, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(hay) {
		return -1
	}
outer:
	for i := 0; i+len(needle) <= len(hay); i++ {
		for j, r := range needle {
			if unicode.ToLower(hay[i+j]) != unicode.ToLower(r) {
				continue outer
			}
		}
		return i
	}
	return -1
}
