// Package note provides the scrolling note content view for the TUI.
package note

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notevault/internal/core/ports/driving"
)

// reservedLines is the title, separator, scroll indicator and status bar.
const reservedLines = 6

// View shows the raw content of one note.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar
	vault     driving.VaultService
	ctx       context.Context

	path         string
	content      string
	lines        []string
	scrollOffset int
	width        int
	height       int
	loading      bool
	err          error
}

// NewView creates a note view over the vault.
func NewView(s *styles.Styles, km *keymap.KeyMap, vault driving.VaultService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km.NoteHelp()),
		vault:     vault,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context notes are fetched under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open resets the view to path and returns a command that loads it.
func (v *View) Open(path string) tea.Cmd {
	v.path = path
	v.content = ""
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true

	vault, ctx := v.vault, v.ctx
	return func() tea.Msg {
		if vault == nil {
			return messages.NoteLoaded{Path: path, Err: ErrNoVaultService}
		}
		n, err := vault.Get(ctx, path)
		return messages.NoteLoaded{Path: path, Note: n, Err: err}
	}
}

// Update handles messages for the note view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.NoteLoaded:
		// A slower load for a previously opened note.
		if msg.Path != v.path {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		if msg.Note != nil {
			v.content = msg.Note.Content
		}
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	maxOffset := v.maxScrollOffset()

	switch {
	case key.Matches(msg, v.keymap.Up):
		v.scrollOffset = max(v.scrollOffset-1, 0)
	case key.Matches(msg, v.keymap.Down):
		v.scrollOffset = min(v.scrollOffset+1, maxOffset)
	case key.Matches(msg, v.keymap.PageUp):
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case key.Matches(msg, v.keymap.PageDown):
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), maxOffset)
	case key.Matches(msg, v.keymap.Top):
		v.scrollOffset = 0
	case key.Matches(msg, v.keymap.Bottom):
		v.scrollOffset = maxOffset
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}

	return v, nil
}

// wrapContent splits the content into display lines no wider than the view.
func (v *View) wrapContent() {
	if v.content == "" {
		v.lines = nil
		return
	}

	contentWidth := max(v.width-4, 20)

	rawLines := strings.Split(strings.ReplaceAll(v.content, "\t", "    "), "\n")
	v.lines = make([]string, 0, len(rawLines))

	for _, line := range rawLines {
		r := []rune(line)
		for len(r) > contentWidth {
			v.lines = append(v.lines, string(r[:contentWidth]))
			r = r[contentWidth:]
		}
		v.lines = append(v.lines, string(r))
	}
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

func (v *View) visibleLines() int {
	return max(v.height-reservedLines, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the note view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.path))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(strings.Repeat("─", max(min(v.width-4, 60), 1))))
	b.WriteString("\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading note..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(Empty note)"))
	default:
		visible := v.visibleLines()
		end := min(v.scrollOffset+visible, len(v.lines))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.styles.Normal.Render(v.lines[i]))
			b.WriteString("\n")
		}
		if len(v.lines) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d",
				v.scrollOffset+1, end, len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.statusbar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
	v.wrapContent()
}

// Path returns the open note's path.
func (v *View) Path() string {
	return v.path
}

// Content returns the note content.
func (v *View) Content() string {
	return v.content
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
