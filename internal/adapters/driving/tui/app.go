package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/views/note"
	"github.com/custodia-labs/notevault/internal/adapters/driving/tui/views/search"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// searchView is the query box and hit list.
	searchView *search.View

	// noteView shows the note opened from a hit.
	noteView *note.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  search.NewView(s, km, ports.Vault),
		noteView:    note.NewView(s, km, ports.Vault),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.noteView.WithContext(ctx)
	return a
}

// WithDebounce sets how long typing must pause before a query runs.
func (a *App) WithDebounce(d time.Duration) *App {
	a.searchView.WithDebounce(d)
	return a
}

// WithLimit caps the number of hits shown.
func (a *App) WithLimit(limit int) *App {
	a.searchView.WithLimit(limit)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("notevault"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewNote {
			a.noteView, cmd = a.noteView.Update(msg)
			return a, cmd
		}
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.SearchTick, messages.SearchCompleted:
		// Results keep arriving while a note is open.
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.NoteRequested:
		a.currentView = messages.ViewNote
		return a, a.noteView.Open(msg.Path)

	case messages.NoteLoaded:
		a.noteView, cmd = a.noteView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewNote {
		a.noteView, cmd = a.noteView.Update(msg)
	} else {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewNote {
		return a.noteView.View()
	}
	return a.searchView.View()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.noteView.SetDimensions(width, height)
}
