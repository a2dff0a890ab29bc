package mcp

import (
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Registry manages the fabric set.
	Registry driving.FabricRegistry

	// Chat runs conversation turns against Ready fabrics.
	Chat driving.ChatSession
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	// Chat is optional; the ask tool reports when it is absent.
	return nil
}
