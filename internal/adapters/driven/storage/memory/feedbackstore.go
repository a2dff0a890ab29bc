package memory

import (
	"context"
	"sync"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// Ensure FeedbackStore implements the interface.
var _ driven.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore is an in-memory implementation of driven.FeedbackStore.
type FeedbackStore struct {
	mu      sync.RWMutex
	entries []domain.Feedback
}

// NewFeedbackStore creates a new in-memory feedback store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

// Save records one feedback entry.
func (s *FeedbackStore) Save(_ context.Context, fb domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, fb)
	return nil
}

// List returns all recorded feedback in submission order.
func (s *FeedbackStore) List(_ context.Context) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Feedback, len(s.entries))
	copy(result, s.entries)
	return result, nil
}
