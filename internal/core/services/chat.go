package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
	"github.com/serviceops-labs/fabric-studio/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatSession = (*ChatService)(nil)

// Default generation parameters.
const (
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 1024
)

// ChatService owns one conversation's message log and mediates turn-taking
// with the backend. The local log is provisional: a user turn is appended
// optimistically, then the whole log is replaced by the backend's
// authoritative version when the response lands.
type ChatService struct {
	api      driven.ChatAPI
	registry driving.FabricRegistry

	mu          sync.RWMutex
	messages    []domain.ChatMessage
	convID      string
	llm         string
	temperature float64
	maxTokens   int
	sending     bool

	// epoch increments on Reset so a response from before the reset is
	// ignored rather than resurrecting the old conversation.
	epoch int
}

// NewChatService creates a chat session bound to the registry's selection.
func NewChatService(api driven.ChatAPI, registry driving.FabricRegistry) *ChatService {
	return &ChatService{
		api:         api,
		registry:    registry,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
}

// Messages returns a copy of the current message log.
func (s *ChatService) Messages() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ChatMessage, len(s.messages))
	copy(result, s.messages)
	return result
}

// ConversationID returns the server-assigned handle, empty until the
// first successful response.
func (s *ChatService) ConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.convID
}

// Sending reports whether a send is in flight.
func (s *ChatService) Sending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sending
}

// SetLLM chooses the model used for subsequent sends.
func (s *ChatService) SetLLM(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.llm = id
}

// LLM returns the chosen model identifier.
func (s *ChatService) LLM() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.llm
}

// SetTemperature sets the sampling temperature, bounded to [0, 1].
func (s *ChatService) SetTemperature(v float64) error {
	if v < 0 || v > 1 {
		return &domain.PreconditionError{Reason: "temperature must be between 0 and 1", Err: domain.ErrInvalidInput}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temperature = v
	return nil
}

// SetMaxTokens sets the generation budget.
func (s *ChatService) SetMaxTokens(n int) error {
	if n <= 0 {
		return &domain.PreconditionError{Reason: "max tokens must be positive", Err: domain.ErrInvalidInput}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxTokens = n
	return nil
}

// Send performs one turn. Preconditions are checked before any network
// call; the optimistic user turn stays in the log even when the send
// fails, with a synthetic assistant error message appended after it.
// The sending flag is cleared on every path.
func (s *ChatService) Send(ctx context.Context, content string) error {
	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return domain.ErrSendInFlight
	}
	if content == "" {
		s.mu.Unlock()
		return &domain.PreconditionError{Reason: "message content is empty", Err: domain.ErrInvalidInput}
	}
	selected := s.registry.Selected()
	if selected == nil {
		s.mu.Unlock()
		return &domain.PreconditionError{Reason: "select a fabric before sending", Err: domain.ErrNoFabricSelected}
	}
	if s.llm == "" {
		s.mu.Unlock()
		return &domain.PreconditionError{Reason: "choose an LLM before sending", Err: domain.ErrNoLLMSelected}
	}

	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.messages = append(s.messages, userMsg)
	s.sending = true

	// Snapshot the full updated log: the request carries the entire
	// conversation, not just the delta.
	log := make([]domain.ChatMessage, len(s.messages))
	copy(log, s.messages)
	temperature := s.temperature
	maxTokens := s.maxTokens
	req := domain.ChatRequest{
		FabricID:       selected.ID,
		LLMID:          s.llm,
		Messages:       log,
		Temperature:    &temperature,
		MaxTokens:      &maxTokens,
		ConversationID: s.convID,
	}
	epoch := s.epoch
	s.mu.Unlock()

	resp, err := s.api.SendChat(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		// The session was reset while this send was in flight. The
		// request could not be aborted; its resolution is ignored.
		return err
	}
	s.sending = false

	if err != nil {
		// The failed user turn is kept; the attempt and the failure
		// sit side by side in the conversation.
		s.messages = append(s.messages, domain.ChatMessage{
			ID:        uuid.NewString(),
			Role:      domain.RoleAssistant,
			Content:   "Error: " + err.Error(),
			CreatedAt: time.Now().UTC(),
		})
		logger.Warn("chat send failed: %v", err)
		return err
	}

	// The server is authoritative for ordering, content and any assistant
	// messages added. Replace wholesale.
	s.messages = make([]domain.ChatMessage, len(resp.Messages))
	copy(s.messages, resp.Messages)
	s.convID = resp.ConversationID
	return nil
}

// SubmitFeedback records a verdict on an assistant message. A zero
// timestamp is filled in with the current time.
func (s *ChatService) SubmitFeedback(ctx context.Context, fb domain.Feedback) error {
	if fb.MessageID == "" {
		return &domain.PreconditionError{Reason: "feedback needs a message ID", Err: domain.ErrInvalidInput}
	}
	if !fb.Rating.IsValid() {
		return &domain.PreconditionError{Reason: "rating must be up or down", Err: domain.ErrInvalidInput}
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = time.Now().UTC()
	}
	return s.api.SubmitFeedback(ctx, fb)
}

// Reset returns the session to a fresh idle state from any state. An
// in-flight send is not cancelled, but its eventual resolution is ignored.
func (s *ChatService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.convID = ""
	s.sending = false
	s.epoch++
}
