package driving

import (
	"context"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// ChatSession manages one conversation's message log and mediates
// turn-taking with the backend, which performs retrieval and generation
// server-side. The session owns the log: views read but never mutate.
type ChatSession interface {
	// Messages returns a copy of the current message log.
	Messages() []domain.ChatMessage

	// ConversationID returns the server-assigned conversation handle.
	// Empty until the first successful response.
	ConversationID() string

	// Sending reports whether a send is in flight.
	Sending() bool

	// SetLLM chooses the model identifier used for subsequent sends.
	SetLLM(id string)

	// LLM returns the chosen model identifier.
	LLM() string

	// SetTemperature sets the sampling temperature. Must be in [0, 1].
	SetTemperature(v float64) error

	// SetMaxTokens sets the generation budget. Must be positive.
	SetMaxTokens(n int) error

	// Send appends a user turn optimistically, ships the entire updated
	// log to the backend, and on success replaces the local log wholesale
	// with the server's authoritative version. On failure a synthetic
	// assistant error message is appended (the failed user turn stays in
	// the log) and the error is returned for UI notification.
	//
	// Preconditions: a fabric must be selected and an LLM chosen;
	// otherwise Send fails with *domain.PreconditionError before any
	// network call. A second Send while one is in flight is rejected
	// with domain.ErrSendInFlight.
	Send(ctx context.Context, content string) error

	// SubmitFeedback records a verdict on an assistant message.
	SubmitFeedback(ctx context.Context, fb domain.Feedback) error

	// Reset returns the session to a fresh idle state: empty log, no
	// conversation ID. It is a full reset, not a graceful cancellation
	// of an in-flight send.
	Reset()
}
