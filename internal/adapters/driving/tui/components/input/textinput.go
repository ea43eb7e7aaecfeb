// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/styles"
)

const minInputWidth = 20

// QueryInput wraps a bubbles textinput for search-as-you-type.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Search notes..."
	ti.Prompt = "/ "
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the input.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards a message to the textinput. changed reports whether the
// value differs afterwards.
func (q *QueryInput) Update(msg tea.Msg) (cmd tea.Cmd, changed bool) {
	before := q.textinput.Value()
	q.textinput, cmd = q.textinput.Update(msg)
	return cmd, q.textinput.Value() != before
}

// View renders the input.
func (q *QueryInput) View() string {
	return q.styles.InputField.Render(q.textinput.View())
}

// Value returns the current query.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// SetValue replaces the query.
func (q *QueryInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// SetWidth sets the width of the input.
func (q *QueryInput) SetWidth(width int) {
	q.width = width
	// border and padding
	q.textinput.Width = max(width-6, minInputWidth)
}

// Width returns the current width.
func (q *QueryInput) Width() int {
	return q.width
}

// Reset clears the query.
func (q *QueryInput) Reset() {
	q.textinput.Reset()
}
