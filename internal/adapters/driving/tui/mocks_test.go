package tui

import (
	"context"
	"sync"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// mockRegistry is a mock implementation of driving.FabricRegistry.
type mockRegistry struct {
	mu          sync.Mutex
	fabrics     []domain.Fabric
	fabric      *domain.Fabric
	ack         *domain.BuildAck
	err         error
	selected    *domain.Fabric
	anyBuilding bool
	reloads     int
	silents     int
	deletes     int
}

func (m *mockRegistry) Fabrics() []domain.Fabric { return m.fabrics }
func (m *mockRegistry) LastError() error         { return m.err }
func (m *mockRegistry) Loading() bool            { return false }

func (m *mockRegistry) Reload(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads++
	return m.err
}

func (m *mockRegistry) ReloadSilent(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.silents++
	return m.err
}

func (m *mockRegistry) Get(_ context.Context, _ string) (*domain.Fabric, error) {
	return m.fabric, m.err
}

func (m *mockRegistry) Create(_ context.Context, _ domain.FabricConfig) (*domain.Fabric, error) {
	return m.fabric, m.err
}

func (m *mockRegistry) TriggerBuild(_ context.Context, _ string) (*domain.BuildAck, error) {
	return m.ack, m.err
}

func (m *mockRegistry) Upload(_ context.Context, _ string, _ []domain.UploadFile) (*domain.UploadAck, error) {
	return nil, m.err
}

func (m *mockRegistry) Delete(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	return m.err
}

func (m *mockRegistry) Select(id string) error {
	for i := range m.fabrics {
		if m.fabrics[i].ID == id {
			m.selected = &m.fabrics[i]
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockRegistry) Selected() *domain.Fabric { return m.selected }
func (m *mockRegistry) ClearSelection()          { m.selected = nil }
func (m *mockRegistry) AnyBuilding() bool        { return m.anyBuilding }
func (m *mockRegistry) OnChange(_ func())        {}

// mockChat is a mock implementation of driving.ChatSession.
type mockChat struct {
	messages []domain.ChatMessage
	answer   domain.ChatMessage
	sendErr  error
	llm      string
	convID   string
	resets   int
}

func (m *mockChat) Messages() []domain.ChatMessage { return m.messages }
func (m *mockChat) ConversationID() string         { return m.convID }
func (m *mockChat) Sending() bool                  { return false }
func (m *mockChat) SetLLM(id string)               { m.llm = id }
func (m *mockChat) LLM() string                    { return m.llm }
func (m *mockChat) SetTemperature(_ float64) error { return nil }
func (m *mockChat) SetMaxTokens(_ int) error       { return nil }

func (m *mockChat) Send(_ context.Context, content string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.messages = append(m.messages,
		domain.ChatMessage{ID: "u1", Role: domain.RoleUser, Content: content},
		m.answer,
	)
	return nil
}

func (m *mockChat) SubmitFeedback(_ context.Context, _ domain.Feedback) error { return nil }

func (m *mockChat) Reset() {
	m.messages = nil
	m.resets++
}
