// Package tui provides an interactive terminal user interface for fabricctl.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Registry manages the fabric set and selection.
	Registry driving.FabricRegistry

	// Chat runs conversation turns against the selected fabric.
	Chat driving.ChatSession

	// Connections tests connector reachability. Optional.
	Connections driving.ConnectionTester
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	registry driving.FabricRegistry,
	chat driving.ChatSession,
) *Ports {
	return &Ports{
		Registry: registry,
		Chat:     chat,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	if p.Chat == nil {
		return ErrMissingChatSession
	}
	return nil
}
