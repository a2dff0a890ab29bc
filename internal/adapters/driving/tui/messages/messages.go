// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewFabrics is the fabric list view.
	ViewFabrics ViewType = iota
	// ViewChat is the conversation view.
	ViewChat
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewFabrics:
		return "fabrics"
	case ViewChat:
		return "chat"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// FabricsReloaded signals that a registry refresh finished. The fabric
// set itself is read from the registry, not carried in the message.
type FabricsReloaded struct {
	Err error
}

// FabricSelected signals a fabric was chosen as the chat target.
type FabricSelected struct {
	Fabric domain.Fabric
}

// BuildTriggered signals the outcome of a build trigger.
type BuildTriggered struct {
	FabricID string
	Ack      *domain.BuildAck
	Err      error
}

// FabricDeleted signals a fabric deletion completed.
type FabricDeleted struct {
	ID  string
	Err error
}

// PollTick drives the build status poll while fabrics are building.
type PollTick struct{}

// ChatTurnCompleted signals that a chat send finished. On failure the
// session already appended a synthetic error message; Err is for the
// status line.
type ChatTurnCompleted struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
