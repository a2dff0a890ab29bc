// Package domain defines the core business entities for Fabric Studio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Fabric: A knowledge-fabric ingestion job and its build status
//   - BuildStatus: The fixed build pipeline stage machine
//   - SourceConfig: ServiceNow / SharePoint / uploaded-document sources
//   - ChatMessage: One turn in a conversation, with citations
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
