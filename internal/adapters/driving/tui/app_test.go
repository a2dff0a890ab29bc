package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui/messages"
	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

func newTestApp(t *testing.T, registry *mockRegistry, chat *mockChat) *App {
	t.Helper()

	app, err := NewApp(&Ports{Registry: registry, Chat: chat})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewApp(t *testing.T) {
	t.Run("missing registry returns error", func(t *testing.T) {
		app, err := NewApp(&Ports{Chat: &mockChat{}})
		require.Error(t, err)
		assert.Nil(t, app)
		assert.ErrorIs(t, err, ErrMissingRegistry)
	})

	t.Run("missing chat returns error", func(t *testing.T) {
		app, err := NewApp(&Ports{Registry: &mockRegistry{}})
		require.Error(t, err)
		assert.Nil(t, app)
		assert.ErrorIs(t, err, ErrMissingChatSession)
	})

	t.Run("valid ports creates app", func(t *testing.T) {
		app, err := NewApp(&Ports{Registry: &mockRegistry{}, Chat: &mockChat{}})
		require.NoError(t, err)
		require.NotNil(t, app)
		assert.Equal(t, messages.ViewFabrics, app.CurrentView())
		assert.False(t, app.Ready())
	})
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t, &mockRegistry{}, &mockChat{})

	cmd := app.Init()

	assert.NotNil(t, cmd)
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Registry: &mockRegistry{}, Chat: &mockChat{}})
	require.NoError(t, err)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	updated, ok := model.(*App)
	require.True(t, ok)
	assert.True(t, updated.Ready())
}

func TestApp_Update_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, &mockRegistry{}, &mockChat{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_Update_QFromFabricsQuits(t *testing.T) {
	app := newTestApp(t, &mockRegistry{}, &mockChat{})

	_, cmd := app.Update(keyRunes('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, &mockRegistry{}, &mockChat{})

	app.Update(keyRunes('?'))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Fabrics:")

	// Any key leaves help
	app.Update(keyRunes('x'))
	assert.Equal(t, messages.ViewFabrics, app.CurrentView())
}

func TestApp_FabricSelected_SwitchesToChat(t *testing.T) {
	chat := &mockChat{}
	app := newTestApp(t, &mockRegistry{}, chat)

	fabric := domain.Fabric{ID: "f1", Name: "Network KB", Status: domain.StatusReady}
	app.Update(messages.FabricSelected{Fabric: fabric})

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Equal(t, 1, chat.resets)
	assert.Contains(t, app.View(), "Network KB")
}

func TestApp_EscFromChat_ReturnsToFabrics(t *testing.T) {
	app := newTestApp(t, &mockRegistry{}, &mockChat{})
	app.Update(messages.FabricSelected{Fabric: domain.Fabric{ID: "f1", Name: "KB"}})
	require.Equal(t, messages.ViewChat, app.CurrentView())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	app.Update(cmd())
	assert.Equal(t, messages.ViewFabrics, app.CurrentView())
}

func TestApp_FabricsReloaded_SchedulesPollWhileBuilding(t *testing.T) {
	registry := &mockRegistry{
		anyBuilding: true,
		fabrics:     []domain.Fabric{{ID: "f1", Status: domain.StatusIngesting}},
	}
	app := newTestApp(t, registry, &mockChat{})

	_, cmd := app.Update(messages.FabricsReloaded{})

	assert.NotNil(t, cmd)
	assert.True(t, app.polling)
}

func TestApp_FabricsReloaded_NoPollWhenIdle(t *testing.T) {
	registry := &mockRegistry{
		fabrics: []domain.Fabric{{ID: "f1", Status: domain.StatusReady}},
	}
	app := newTestApp(t, registry, &mockChat{})

	app.Update(messages.FabricsReloaded{})

	assert.False(t, app.polling)
}

func TestApp_PollTick_ResetsPollingFlag(t *testing.T) {
	registry := &mockRegistry{anyBuilding: true}
	app := newTestApp(t, registry, &mockChat{})
	app.Update(messages.FabricsReloaded{})
	require.True(t, app.polling)

	_, cmd := app.Update(messages.PollTick{})

	assert.False(t, app.polling)
	// Fabrics view responds with a silent reload command.
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, 1, registry.silents)
}

func TestApp_ChatTurnCompleted_ErrorSurfaces(t *testing.T) {
	app := newTestApp(t, &mockRegistry{}, &mockChat{})
	app.Update(messages.FabricSelected{Fabric: domain.Fabric{ID: "f1", Name: "KB"}})

	turnErr := errors.New("fabric not ready")
	app.Update(messages.ChatTurnCompleted{Err: turnErr})

	assert.Equal(t, turnErr, app.Err())
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(&Ports{Registry: &mockRegistry{}, Chat: &mockChat{}})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_View_Fabrics(t *testing.T) {
	registry := &mockRegistry{
		fabrics: []domain.Fabric{{ID: "f1", Name: "Network KB", Status: domain.StatusReady}},
	}
	app := newTestApp(t, registry, &mockChat{})
	app.Update(messages.FabricsReloaded{})

	view := app.View()

	assert.Contains(t, view, "Knowledge Fabrics")
	assert.Contains(t, view, "Network KB")
}

func TestApp_WithPollInterval(t *testing.T) {
	app := newTestApp(t, &mockRegistry{}, &mockChat{})

	app.WithPollInterval(500 * time.Millisecond)
	assert.Equal(t, 500*time.Millisecond, app.pollInterval)

	// Non-positive intervals are ignored.
	app.WithPollInterval(0)
	assert.Equal(t, 500*time.Millisecond, app.pollInterval)
}
