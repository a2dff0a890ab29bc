package domain

import "time"

// Role identifies the author of a chat message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Citation points at the retrieved material backing an assistant response.
type Citation struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	Link    string `json:"link,omitempty"`
}

// ChatMessage is one turn in a conversation. User-turn IDs are generated
// client-side; assistant-turn IDs are assigned by the backend.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	// Sources lists citations for assistant messages. Ordered.
	Sources []Citation `json:"sources,omitempty"`
}

// ChatRequest carries one user turn to the backend. The entire updated
// message log is sent, not just the delta; the backend replies with the
// authoritative full log.
type ChatRequest struct {
	FabricID       string        `json:"fabricId"`
	LLMID          string        `json:"llmId"`
	Messages       []ChatMessage `json:"messages"`
	Temperature    *float64      `json:"temperature,omitempty"`
	MaxTokens      *int          `json:"maxTokens,omitempty"`
	ConversationID string        `json:"conversationId,omitempty"`
}

// ChatResponse is the backend's authoritative view of the conversation
// after a turn: final ordering, content, and any assistant messages added.
type ChatResponse struct {
	Messages       []ChatMessage `json:"messages"`
	ConversationID string        `json:"conversationId"`
}

// Rating is a thumbs-up/down verdict on an assistant message.
type Rating string

// Feedback ratings.
const (
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

// IsValid returns true if the rating is recognised.
func (r Rating) IsValid() bool {
	return r == RatingUp || r == RatingDown
}

// Feedback is a user verdict on one assistant message.
type Feedback struct {
	MessageID      string    `json:"messageId"`
	FabricID       string    `json:"fabricId"`
	LLMID          string    `json:"llmId"`
	Rating         Rating    `json:"rating"`
	Comments       string    `json:"comments,omitempty"`
	ConversationID string    `json:"conversationId,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
