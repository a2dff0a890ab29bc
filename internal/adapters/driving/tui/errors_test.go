package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingRegistry,
		ErrMissingChatSession,
		ErrInvalidPorts,
	}

	// Ensure all errors are unique
	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingRegistry_Message(t *testing.T) {
	assert.Contains(t, ErrMissingRegistry.Error(), "fabric registry")
}

func TestErrMissingChatSession_Message(t *testing.T) {
	assert.Contains(t, ErrMissingChatSession.Error(), "chat session")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
