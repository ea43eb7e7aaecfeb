// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/styles"
)

// State represents the current search state for display.
type State string

const (
	StateReady       State = "ready"
	StateSearching   State = "searching"
	StateResults     State = "results"
	StateError       State = "error"
	StateUnavailable State = "unavailable"
)

// Bar displays search status and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	bindings []key.Binding
	state    State
	message  string
	count    int
	width    int
}

// NewBar creates a status bar showing the given keybinding hints.
func NewBar(s *styles.Styles, bindings []key.Binding) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if bindings == nil {
		bindings = keymap.DefaultKeyMap().SearchHelp()
	}

	return &Bar{
		styles:   s,
		bindings: bindings,
		state:    StateReady,
		width:    80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	inner := b.width - b.styles.StatusBar.GetHorizontalFrameSize()
	padding := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateSearching:
		return b.styles.Muted.Render("Searching...")
	case StateResults:
		if b.count == 1 {
			return b.styles.Normal.Render("1 note")
		}
		return b.styles.Normal.Render(fmt.Sprintf("%d notes", b.count))
	case StateUnavailable:
		return b.styles.Warning.Render("search unavailable")
	case StateError:
		if b.message != "" {
			return b.styles.Error.Render("Error: " + b.message)
		}
		return b.styles.Error.Render("Error")
	case StateReady:
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) renderRight() string {
	hints := make([]string, 0, len(b.bindings))
	for _, binding := range b.bindings {
		h := binding.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets the error message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetResultCount sets the number of hits shown.
func (b *Bar) SetResultCount(count int) {
	b.count = count
}

// ResultCount returns the current hit count.
func (b *Bar) ResultCount() int {
	return b.count
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Clear resets the status bar to the ready state.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
	b.count = 0
}
