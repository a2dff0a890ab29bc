// Package mcp provides an MCP (Model Context Protocol) server adapter for
// fabricctl. It lets AI assistants list knowledge fabrics, inspect build
// progress, trigger builds, and ask questions of Ready fabrics.
package mcp

import "errors"

// ErrMissingRegistry is returned when the fabric registry is not provided.
var ErrMissingRegistry = errors.New("mcp: fabric registry is required")
