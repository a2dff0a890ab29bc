// Package server implements the fabric backend as a Gin HTTP service.
//
// It serves the same HTTP/JSON contract the fabricctl client consumes,
// with a simulated asynchronous build pipeline: triggering a build starts
// a background goroutine that advances the fabric through the build
// stages on a timer and populates the derived counters on completion.
// Retrieval and generation are mocked; the conversation protocol, the
// build-state machine and the error convention are real.
package server
