package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/keymap"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/messages"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/styles"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/views/chat"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/views/fabrics"
)

// DefaultPollInterval is how often build statuses are refreshed while
// at least one fabric is building.
const DefaultPollInterval = 2500 * time.Millisecond

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the keybindings.
	keymap *keymap.KeyMap

	// fabricsView is the fabric list view.
	fabricsView *fabrics.View

	// chatView is the conversation view.
	chatView *chat.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// pollInterval is the build status refresh cadence.
	pollInterval time.Duration

	// polling guards against scheduling overlapping poll ticks.
	polling bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		fabricsView:  fabrics.NewView(s, ports.Registry),
		chatView:     chat.NewView(s, km, ports.Chat),
		currentView:  messages.ViewFabrics,
		pollInterval: DefaultPollInterval,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// WithPollInterval overrides the build status refresh cadence.
func (a *App) WithPollInterval(interval time.Duration) *App {
	if interval > 0 {
		a.pollInterval = interval
	}
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("fabricctl - Knowledge Fabrics"),
		a.fabricsView.Init(),
	)
}

// pollTick schedules the next build status refresh.
func (a *App) pollTick() tea.Cmd {
	a.polling = true
	return tea.Tick(a.pollInterval, func(time.Time) tea.Msg {
		return messages.PollTick{}
	})
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.fabricsView.SetDimensions(msg.Width, msg.Height)
		a.chatView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewFabrics:
			if msg.String() == "q" {
				return a, tea.Quit
			}
			if msg.String() == "?" {
				a.currentView = messages.ViewHelp
				return a, nil
			}
			a.fabricsView, cmd = a.fabricsView.Update(msg)
			return a, cmd

		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Any key leaves help
			a.currentView = messages.ViewFabrics
			return a, nil
		}
		return a, nil

	case messages.FabricsReloaded:
		a.fabricsView, cmd = a.fabricsView.Update(msg)
		a.err = a.fabricsView.Err()
		// Keep polling while anything is building.
		if msg.Err == nil && a.ports.Registry.AnyBuilding() && !a.polling {
			return a, tea.Batch(cmd, a.pollTick())
		}
		return a, cmd

	case messages.PollTick:
		a.polling = false
		a.fabricsView, cmd = a.fabricsView.Update(msg)
		return a, cmd

	case messages.BuildTriggered, messages.FabricDeleted:
		a.fabricsView, cmd = a.fabricsView.Update(msg)
		a.err = a.fabricsView.Err()
		return a, cmd

	case messages.FabricSelected:
		a.currentView = messages.ViewChat
		a.chatView.SetFabric(msg.Fabric)
		a.chatView.SetDimensions(a.width, a.height)
		return a, a.chatView.Init()

	case messages.ChatTurnCompleted:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = a.chatView.Err()
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewFabrics {
			return a, a.fabricsView.Init()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewFabrics:
			a.fabricsView, cmd = a.fabricsView.Update(msg)
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
		case messages.ViewHelp:
			// Help view doesn't handle errors
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewFabrics:
		a.fabricsView, cmd = a.fabricsView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewFabrics:
		return a.fabricsView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.fabricsView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Fabrics:
  j/k, ↑/↓    Navigate fabrics
  enter       Chat with fabric
  b           Trigger build
  d           Delete fabric
  r           Refresh list
  q           Quit

Chat:
  (type)      Compose message
  enter       Send
  ctrl+r      Reset conversation
  pgup/pgdn   Scroll transcript
  esc         Back to fabrics

[any key] back`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.fabricsView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
}
