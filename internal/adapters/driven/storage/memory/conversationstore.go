package memory

import (
	"context"
	"sync"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of driven.ConversationStore.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string][]domain.ChatMessage
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string][]domain.ChatMessage),
	}
}

// Append adds messages to a conversation, creating it if needed.
func (s *ConversationStore) Append(_ context.Context, conversationID string, msgs []domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conversationID] = append(s.conversations[conversationID], msgs...)
	return nil
}

// Get returns the full ordered log for a conversation.
func (s *ConversationStore) Get(_ context.Context, conversationID string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.conversations[conversationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	result := make([]domain.ChatMessage, len(msgs))
	copy(result, msgs)
	return result, nil
}
