package tui

import "errors"

// ErrMissingRegistry is returned when the fabric registry is not provided.
var ErrMissingRegistry = errors.New("tui: fabric registry is required")

// ErrMissingChatSession is returned when the chat session is not provided.
var ErrMissingChatSession = errors.New("tui: chat session is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
