package driven

import (
	"context"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// FabricStore is server-side fabric persistence.
type FabricStore interface {
	// Save stores or updates a fabric.
	Save(ctx context.Context, fabric domain.Fabric) error

	// Get retrieves a fabric by ID. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Fabric, error)

	// Delete removes a fabric.
	Delete(ctx context.Context, id string) error

	// List returns all stored fabrics.
	List(ctx context.Context) ([]domain.Fabric, error)
}

// ConversationStore is server-side conversation log persistence.
type ConversationStore interface {
	// Append adds messages to a conversation, creating it if needed.
	Append(ctx context.Context, conversationID string, msgs []domain.ChatMessage) error

	// Get returns the full ordered log for a conversation.
	// Returns domain.ErrNotFound when the conversation does not exist.
	Get(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}

// FeedbackStore is server-side feedback persistence.
type FeedbackStore interface {
	// Save records one feedback entry.
	Save(ctx context.Context, fb domain.Feedback) error

	// List returns all recorded feedback.
	List(ctx context.Context) ([]domain.Feedback, error)
}
