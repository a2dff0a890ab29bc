// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/components/input"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/components/status"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/keymap"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/messages"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/styles"
	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
)

// View represents the chat view with transcript, prompt input, and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	prompt     *input.PromptInput
	transcript viewport.Model
	statusbar  *status.Bar

	chat driving.ChatSession
	ctx  context.Context

	fabric  *domain.Fabric
	width   int
	height  int
	ready   bool
	sending bool
	err     error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chat driving.ChatSession,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	vp := viewport.New(80, 16)

	bar := status.NewBar(s, km)
	bar.SetState(status.StateChat)

	return &View{
		styles:     s,
		keymap:     km,
		prompt:     input.NewPromptInput(s),
		transcript: vp,
		statusbar:  bar,
		chat:       chat,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.prompt.Init()
}

// SetFabric points the view at a fabric and clears any prior transcript.
func (v *View) SetFabric(fabric domain.Fabric) {
	v.fabric = &fabric
	v.err = nil
	v.sending = false
	if v.chat != nil {
		v.chat.Reset()
	}
	v.prompt.Reset()
	v.statusbar.SetState(status.StateChat)
	v.statusbar.SetFabricName(fabric.Name)
	v.refreshTranscript()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChatTurnCompleted:
		v.sending = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
		} else {
			v.err = nil
			v.statusbar.SetState(status.StateChat)
			v.statusbar.SetMessage("")
		}
		v.refreshTranscript()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewFabrics}
		}
	}

	if keymap.Matches(msg.String(), v.keymap.ResetChat) {
		if v.chat != nil {
			v.chat.Reset()
		}
		v.err = nil
		v.statusbar.SetState(status.StateChat)
		v.statusbar.SetMessage("")
		v.refreshTranscript()
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		if v.sending {
			return v, nil
		}
		question := strings.TrimSpace(v.prompt.Value())
		if question == "" {
			return v, nil
		}
		v.prompt.Reset()
		v.sending = true
		v.statusbar.SetState(status.StateThinking)
		return v, v.send(question)
	}

	// Page the transcript without stealing focus from the prompt.
	switch msg.String() {
	case "pgup":
		v.transcript.LineUp(5)
		return v, nil
	case "pgdown":
		v.transcript.LineDown(5)
		return v, nil
	}

	var cmd tea.Cmd
	v.prompt, cmd = v.prompt.Update(msg)
	return v, cmd
}

// send returns a command that sends a chat message.
func (v *View) send(question string) tea.Cmd {
	return func() tea.Msg {
		if v.chat == nil {
			return messages.ChatTurnCompleted{Err: ErrNoChatSession}
		}
		err := v.chat.Send(v.ctx, question)
		return messages.ChatTurnCompleted{Err: err}
	}
}

// refreshTranscript re-renders the message log into the viewport.
func (v *View) refreshTranscript() {
	v.transcript.SetContent(v.renderTranscript())
	v.transcript.GotoBottom()
}

// renderTranscript renders the conversation history.
func (v *View) renderTranscript() string {
	if v.chat == nil {
		return v.styles.Muted.Render("Chat is not available.")
	}

	msgs := v.chat.Messages()
	if len(msgs) == 0 {
		name := "this fabric"
		if v.fabric != nil && v.fabric.Name != "" {
			name = v.fabric.Name
		}
		return v.styles.Muted.Render("Ask " + name + " anything about its knowledge base.")
	}

	var b strings.Builder
	for i := range msgs {
		msg := &msgs[i]
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(v.styles.UserMessage.Render("You"))
			b.WriteString("\n")
			b.WriteString(v.styles.Normal.Render(msg.Content))
		case domain.RoleAssistant:
			b.WriteString(v.styles.Subtitle.Render("Assistant"))
			b.WriteString("\n")
			b.WriteString(v.styles.AssistantMessage.Render(msg.Content))
			for _, src := range msg.Sources {
				b.WriteString("\n")
				b.WriteString(v.styles.Citation.Render("[" + src.Title + "]"))
			}
		default:
			b.WriteString(v.styles.Muted.Render(msg.Content))
		}
		b.WriteString("\n\n")
	}

	if v.sending {
		b.WriteString(v.styles.Muted.Render("Thinking..."))
		b.WriteString("\n")
	}

	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	title := "Chat"
	if v.fabric != nil && v.fabric.Name != "" {
		title = "Chat: " + v.fabric.Name
	}
	sections = append(sections, v.styles.Title.Render(title), "")

	sections = append(sections, v.transcript.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.prompt.View(), "")
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.prompt.SetWidth(width)
	v.statusbar.SetWidth(width)

	transcriptHeight := height - 8
	if transcriptHeight < 4 {
		transcriptHeight = 4
	}
	v.transcript.Width = width
	v.transcript.Height = transcriptHeight
	v.refreshTranscript()
}

// Fabric returns the fabric the view is pointed at.
func (v *View) Fabric() *domain.Fabric {
	return v.fabric
}

// Sending returns whether a chat turn is in flight.
func (v *View) Sending() bool {
	return v.sending
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
