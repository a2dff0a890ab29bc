package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driven/storage/memory"
	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// withServices installs mock services for the duration of a test.
func withServices(t *testing.T, cfg Config) {
	t.Helper()

	prevRegistry := registryService
	prevChat := chatSession
	prevConnections := connectionService
	prevPoller := buildPoller
	prevConfig := configStore
	prevInterval := pollInterval

	SetServices(cfg)

	t.Cleanup(func() {
		registryService = prevRegistry
		chatSession = prevChat
		connectionService = prevConnections
		buildPoller = prevPoller
		configStore = prevConfig
		pollInterval = prevInterval
	})
}

// mockRegistry is a mock implementation of driving.FabricRegistry.
type mockRegistry struct {
	fabrics   []domain.Fabric
	fabric    *domain.Fabric
	ack       *domain.BuildAck
	uploadAck *domain.UploadAck
	err       error
	selected  *domain.Fabric

	createdConfig *domain.FabricConfig
	uploadedFiles []domain.UploadFile
	deletedID     string
}

func (m *mockRegistry) Fabrics() []domain.Fabric { return m.fabrics }
func (m *mockRegistry) LastError() error         { return m.err }
func (m *mockRegistry) Loading() bool            { return false }

func (m *mockRegistry) Reload(_ context.Context) error       { return m.err }
func (m *mockRegistry) ReloadSilent(_ context.Context) error { return m.err }

func (m *mockRegistry) Get(_ context.Context, _ string) (*domain.Fabric, error) {
	return m.fabric, m.err
}

func (m *mockRegistry) Create(_ context.Context, cfg domain.FabricConfig) (*domain.Fabric, error) {
	m.createdConfig = &cfg
	return m.fabric, m.err
}

func (m *mockRegistry) TriggerBuild(_ context.Context, _ string) (*domain.BuildAck, error) {
	return m.ack, m.err
}

func (m *mockRegistry) Upload(_ context.Context, _ string, files []domain.UploadFile) (*domain.UploadAck, error) {
	m.uploadedFiles = files
	return m.uploadAck, m.err
}

func (m *mockRegistry) Delete(_ context.Context, id string) error {
	m.deletedID = id
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
func (m *mockRegistry) AnyBuilding() bool        { return false }
func (m *mockRegistry) OnChange(_ func())        {}

// mockChat is a mock implementation of driving.ChatSession.
type mockChat struct {
	messages []domain.ChatMessage
	answer   domain.ChatMessage
	sendErr  error
	llm      string
	convID   string
	resets   int
	feedback *domain.Feedback
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

func (m *mockChat) SubmitFeedback(_ context.Context, fb domain.Feedback) error {
	m.feedback = &fb
	return nil
}

func (m *mockChat) Reset() {
	m.messages = nil
	m.resets++
}

// mockConnections is a mock implementation of driving.ConnectionTester.
type mockConnections struct {
	snResult *domain.ConnectionResult
	spResult *domain.ConnectionResult
	creds    *domain.CredentialStatus
	err      error

	snSource domain.ServiceNowSource
	spSource domain.SharePointSource
}

func (m *mockConnections) TestServiceNow(_ context.Context, src domain.ServiceNowSource) (*domain.ConnectionResult, error) {
	m.snSource = src
	return m.snResult, m.err
}

func (m *mockConnections) TestSharePoint(_ context.Context, src domain.SharePointSource) (*domain.ConnectionResult, error) {
	m.spSource = src
	return m.spResult, m.err
}

func (m *mockConnections) CheckServiceNowCredentials(_ context.Context) (*domain.CredentialStatus, error) {
	return m.creds, m.err
}

// newTestConfigStore returns the in-memory store the config-dependent
// commands are tested against.
func newTestConfigStore() *memory.ConfigStore {
	return memory.NewConfigStore()
}
