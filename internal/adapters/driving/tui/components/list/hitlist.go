// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notevault/internal/core/domain"
)

// linesPerHit is title, path and snippet.
const linesPerHit = 3

// HitList displays search hits in a navigable list.
type HitList struct {
	hits     []domain.SearchHit
	query    string
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewHitList creates an empty hit list.
func NewHitList(s *styles.Styles) *HitList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &HitList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the visible window of hits around the selection.
func (l *HitList) View() string {
	if len(l.hits) == 0 {
		if strings.TrimSpace(l.query) == "" {
			return ""
		}
		return l.styles.Muted.Render("No matching notes")
	}

	visible := max(l.height/linesPerHit, 1)
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.hits))

	blocks := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		blocks = append(blocks, l.renderHit(i, &l.hits[i]))
	}
	return strings.Join(blocks, "\n")
}

func (l *HitList) renderHit(index int, hit *domain.SearchHit) string {
	title := hit.Title
	if title == "" {
		title = "(Untitled)"
	}
	title = truncate(title, max(l.width-4, 10))

	var titleLine string
	if index == l.selected {
		titleLine = l.styles.Selected.Render("> " + title)
	} else {
		titleLine = "  " + l.styles.Normal.Render(title)
	}

	pathLine := "    " + l.styles.Path.Render(truncate(hit.Path, max(l.width-6, 10)))

	snippet := strings.Join(strings.Fields(hit.Snippet), " ")
	snippet = truncate(snippet, max(l.width-6, 20))
	snippetLine := "    " + l.highlight(snippet)

	return fmt.Sprintf("%s\n%s\n%s", titleLine, pathLine, snippetLine)
}

// highlight renders every case-insensitive occurrence of a query term in
// text with the Match style.
func (l *HitList) highlight(text string) string {
	terms := strings.Fields(strings.ToLower(l.query))
	if len(terms) == 0 {
		return l.styles.Muted.Render(text)
	}

	runes := []rune(text)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	marked := make([]bool, len(runes))
	for _, term := range terms {
		t := []rune(term)
		for i := 0; i+len(t) <= len(lower); i++ {
			if string(lower[i:i+len(t)]) == term {
				for j := i; j < i+len(t); j++ {
					marked[j] = true
				}
			}
		}
	}

	var b strings.Builder
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && marked[j] == marked[i] {
			j++
		}
		if marked[i] {
			b.WriteString(l.styles.Match.Render(string(runes[i:j])))
		} else {
			b.WriteString(l.styles.Muted.Render(string(runes[i:j])))
		}
		i = j
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SetHits replaces the hits and the query used for highlighting.
// The selection resets to the first hit.
func (l *HitList) SetHits(hits []domain.SearchHit, query string) {
	l.hits = hits
	l.query = query
	l.selected = 0
}

// Clear removes all hits.
func (l *HitList) Clear() {
	l.SetHits(nil, "")
}

// Hits returns the current hits.
func (l *HitList) Hits() []domain.SearchHit {
	return l.hits
}

// Selected returns the index of the selected hit.
func (l *HitList) Selected() int {
	return l.selected
}

// SelectedHit returns the currently selected hit, or nil if none.
func (l *HitList) SelectedHit() *domain.SearchHit {
	if l.selected < 0 || l.selected >= len(l.hits) {
		return nil
	}
	return &l.hits[l.selected]
}

// MoveUp moves selection up.
func (l *HitList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *HitList) MoveDown() {
	if l.selected < len(l.hits)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *HitList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of hits.
func (l *HitList) Count() int {
	return len(l.hits)
}
