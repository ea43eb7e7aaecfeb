// Package search provides the search-as-you-type view for the TUI.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notevault/internal/core/domain"
	"github.com/custodia-labs/notevault/internal/core/ports/driving"
)

// DefaultDebounce is how long typing must pause before a query runs.
const DefaultDebounce = 150 * time.Millisecond

// chromeHeight is the header, input box and status bar.
const chromeHeight = 8

// View is the query input, hit list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.HitList
	statusbar *status.Bar

	vault driving.VaultService
	ctx   context.Context

	debounce time.Duration
	limit    int

	// seq increments on every edit of the query. Only the tick carrying
	// the latest seq issues a search.
	seq uint64

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a search view over the vault.
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
		input:     input.NewQueryInput(s),
		list:      list.NewHitList(s),
		statusbar: status.NewBar(s, km.SearchHelp()),
		vault:     vault,
		ctx:       context.Background(),
		debounce:  DefaultDebounce,
		limit:     domain.DefaultSearchLimit,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context searches run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithDebounce sets the pause after typing before a query runs.
// Zero searches on every keystroke.
func (v *View) WithDebounce(d time.Duration) *View {
	v.debounce = max(d, 0)
	return v
}

// WithLimit sets the maximum number of hits shown.
func (v *View) WithLimit(limit int) *View {
	if limit > 0 {
		v.limit = limit
	}
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchTick:
		if msg.Seq != v.seq {
			return v, nil
		}
		return v, v.performSearch(msg.Query)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	cmd, _ := v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		if v.input.Value() == "" {
			return v, func() tea.Msg { return messages.Quit{} }
		}
		v.Reset()
		return v, nil

	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
		return v, nil

	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
		return v, nil

	case key.Matches(msg, v.keymap.Open):
		hit := v.list.SelectedHit()
		if hit == nil {
			return v, nil
		}
		path := hit.Path
		return v, func() tea.Msg { return messages.NoteRequested{Path: path} }
	}

	cmd, changed := v.input.Update(msg)
	if !changed {
		return v, cmd
	}
	return v, tea.Batch(cmd, v.queryChanged())
}

// queryChanged records an edit and schedules a debounced search for it.
// A blank query clears the results without searching.
func (v *View) queryChanged() tea.Cmd {
	v.seq++
	query := v.input.Value()

	if strings.TrimSpace(query) == "" {
		v.list.Clear()
		v.err = nil
		v.statusbar.Clear()
		return nil
	}

	v.statusbar.SetState(status.StateSearching)
	tick := messages.SearchTick{Seq: v.seq, Query: query}
	if v.debounce == 0 {
		return func() tea.Msg { return tick }
	}
	return tea.Tick(v.debounce, func(time.Time) tea.Msg { return tick })
}

// performSearch runs the query against the vault off the update loop.
func (v *View) performSearch(query string) tea.Cmd {
	vault, ctx, limit := v.vault, v.ctx, v.limit
	return func() tea.Msg {
		if vault == nil {
			return messages.SearchCompleted{Query: query, Err: ErrNoVaultService}
		}
		hits, err := vault.Search(ctx, query, limit)
		return messages.SearchCompleted{Query: query, Hits: hits, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	// Results for an older query arrive after newer keystrokes.
	if msg.Query != v.input.Value() {
		return
	}

	switch {
	case errors.Is(msg.Err, domain.ErrSearchUnavailable):
		v.err = nil
		v.list.Clear()
		v.statusbar.SetState(status.StateUnavailable)
	case msg.Err != nil:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	default:
		v.err = nil
		v.list.SetHits(msg.Hits, msg.Query)
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetResultCount(len(msg.Hits))
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("notevault"),
		v.input.View(),
	}

	switch {
	case v.statusbar.State() == status.StateUnavailable:
		sections = append(sections, v.styles.Warning.Render("Search is unavailable on this host."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	default:
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, max(height-chromeHeight, 1))
	v.statusbar.SetWidth(width)
}

// Reset clears the query and results. Pending ticks and in-flight
// searches become stale.
func (v *View) Reset() {
	v.seq++
	v.input.Reset()
	v.list.Clear()
	v.err = nil
	v.statusbar.Clear()
}

// Query returns the current query.
func (v *View) Query() string {
	return v.input.Value()
}

// Hits returns the hits currently displayed.
func (v *View) Hits() []domain.SearchHit {
	return v.list.Hits()
}

// SelectedHit returns the highlighted hit, or nil.
func (v *View) SelectedHit() *domain.SearchHit {
	return v.list.SelectedHit()
}

// Seq returns the sequence number of the latest edit.
func (v *View) Seq() uint64 {
	return v.seq
}

// State returns the status bar state.
func (v *View) State() status.State {
	return v.statusbar.State()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view has been sized.
func (v *View) Ready() bool {
	return v.ready
}
