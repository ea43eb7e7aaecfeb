// Package tokenize splits text into normalised index terms.
package tokenize

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Token is a normalised term and its ordinal position in the source text.
type Token struct {
	Term string
	Pos  int
}

// Tokens splits s on every rune that is not a letter or digit and
// lowercases the pieces.
func Tokens(s string) []Token {
	var (
		tokens []Token
		b      strings.Builder
	)
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{Term: b.String(), Pos: len(tokens)})
		b.Reset()
	}

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Terms returns the terms of s in order, including repeats.
func Terms(s string) []string {
	return lo.Map(Tokens(s), func(t Token, _ int) string {
		return t.Term
	})
}

// QueryTerms returns the distinct terms of a query in first-seen order.
func QueryTerms(query string) []string {
	return lo.Uniq(Terms(query))
}
