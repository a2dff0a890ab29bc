// Package services implements the core business logic for Fabric Studio.
//
// Services implement the driving ports and depend only on domain types and
// driven ports. Each service is a plain dependency-injected object,
// constructed once at application start and passed by reference to the
// CLI/TUI/MCP adapters - there is no global mutable state.
//
//   - RegistryService: client-side source of truth for the fabric set
//   - BuildPoller: level-triggered build status polling
//   - ChatService: conversation log and turn-taking with the backend
//   - ConnectionService: upstream connector tests
package services
