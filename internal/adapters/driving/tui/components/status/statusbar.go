// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/keymap"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateBuilding State = "building"
	StateThinking State = "thinking"
	StateError    State = "error"
	StateChat     State = "chat"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles        *styles.Styles
	keymap        *keymap.KeyMap
	state         State
	message       string
	fabricName    string
	buildingCount int
	width         int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	bar := s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)

	return bar
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateBuilding:
		if s.buildingCount > 1 {
			return s.styles.Warning.Render(fmt.Sprintf("Building %d fabrics...", s.buildingCount))
		}
		return s.styles.Warning.Render("Building...")
	case StateThinking:
		return s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateChat:
		if s.fabricName != "" {
			return s.styles.Normal.Render("Chatting with " + s.fabricName)
		}
		return s.styles.Normal.Render("Chat")
	case StateReady:
		if s.message != "" {
			return s.styles.Normal.Render(s.message)
		}
		return s.styles.Muted.Render("Ready")
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding

	switch s.state {
	case StateChat, StateThinking:
		bindings = s.keymap.ChatHelp()
	default:
		bindings = s.keymap.FabricsHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hint := fmt.Sprintf("%s: %s", h.Key, h.Desc)
		hints = append(hints, hint)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetFabricName sets the active fabric name shown in chat mode.
func (s *Bar) SetFabricName(name string) {
	s.fabricName = name
}

// FabricName returns the active fabric name.
func (s *Bar) FabricName() string {
	return s.fabricName
}

// SetBuildingCount sets the number of fabrics currently building.
func (s *Bar) SetBuildingCount(count int) {
	s.buildingCount = count
	if count > 0 {
		s.state = StateBuilding
	} else if s.state == StateBuilding {
		s.state = StateReady
	}
}

// BuildingCount returns the number of fabrics currently building.
func (s *Bar) BuildingCount() int {
	return s.buildingCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.fabricName = ""
	s.buildingCount = 0
}
