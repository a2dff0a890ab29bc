// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Client-side ports
//
//   - FabricAPI: the backend's fabric CRUD and build-trigger contract
//   - ChatAPI: the backend's chat and feedback contract
//   - ConnectionAPI: the backend's connector test contract
//   - ConfigStore: application configuration
//
// # Server-side ports
//
// These back the embedded development server (fabricctl serve):
//
//   - FabricStore: fabric persistence
//   - ConversationStore: conversation log persistence
//   - FeedbackStore: feedback persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or server package
package driven
