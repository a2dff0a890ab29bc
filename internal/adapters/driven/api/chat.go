package api

import (
	"context"
	"net/http"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// SendChat ships the entire updated message log and returns the backend's
// authoritative log plus the conversation ID.
func (c *Client) SendChat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	var resp domain.ChatResponse
	if err := c.doJSON(ctx, "send chat", http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitFeedback records a rating for an assistant message.
func (c *Client) SubmitFeedback(ctx context.Context, fb domain.Feedback) error {
	return c.doJSON(ctx, "submit feedback", http.MethodPost, "/api/feedback", fb, nil)
}
