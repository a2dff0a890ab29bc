package domain

import (
	"fmt"
	"time"
)

// BuildStatus is the build pipeline stage of a fabric.
type BuildStatus string

// Build stages, in pipeline order.
const (
	// StatusDraft is the initial state. A draft fabric exists but has
	// never had a build triggered.
	StatusDraft BuildStatus = "Draft"

	// StatusIngesting means source documents are being fetched.
	StatusIngesting BuildStatus = "Ingesting"

	// StatusChunking means documents are being split into chunks.
	StatusChunking BuildStatus = "Chunking"

	// StatusVectorizing means chunk embeddings are being generated.
	StatusVectorizing BuildStatus = "Vectorizing"

	// StatusGraphBuilding means the knowledge graph is being constructed.
	StatusGraphBuilding BuildStatus = "GraphBuilding"

	// StatusReady is the terminal success state. The fabric can answer chat.
	StatusReady BuildStatus = "Ready"

	// StatusError is the terminal failure state, reachable from any
	// non-terminal state.
	StatusError BuildStatus = "Error"
)

// buildOrder is the monotonic stage progression. Error is an escape, not
// part of the ordering.
var buildOrder = []BuildStatus{
	StatusDraft,
	StatusIngesting,
	StatusChunking,
	StatusVectorizing,
	StatusGraphBuilding,
	StatusReady,
}

// IsValid returns true if the status is recognised.
func (s BuildStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusIngesting, StatusChunking,
		StatusVectorizing, StatusGraphBuilding, StatusReady, StatusError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for states the build pipeline never leaves.
func (s BuildStatus) IsTerminal() bool {
	return s == StatusReady || s == StatusError
}

// IsBuilding returns true while the asynchronous pipeline is advancing.
// Draft is non-advancing: nothing is running until a build is triggered.
func (s BuildStatus) IsBuilding() bool {
	return s.IsValid() && !s.IsTerminal() && s != StatusDraft
}

// stageIndex returns the position of s in the build order, or -1 for Error.
func (s BuildStatus) stageIndex() int {
	for i, stage := range buildOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the stage following s in the pipeline. The terminal states
// and Error have no successor.
func (s BuildStatus) Next() (BuildStatus, bool) {
	i := s.stageIndex()
	if i < 0 || i >= len(buildOrder)-1 {
		return s, false
	}
	return buildOrder[i+1], true
}

// CanTransitionTo reports whether a transition from s to next is legal.
// Transitions are monotonic along the stage order; any non-terminal state
// may escape to Error. Triggering a build restarts Draft and Error fabrics
// at Ingesting.
func (s BuildStatus) CanTransitionTo(next BuildStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if next == StatusError {
		return !s.IsTerminal()
	}
	if s == StatusError {
		// Build retry after failure.
		return next == StatusIngesting
	}
	return next.stageIndex() == s.stageIndex()+1
}

// String returns the wire representation.
func (s BuildStatus) String() string {
	return string(s)
}

// FabricDomain categorises what a fabric's knowledge covers.
type FabricDomain string

// Known fabric domains.
const (
	DomainIncidentManagement FabricDomain = "Incident Management"
	DomainProblemManagement  FabricDomain = "Problem Management"
	DomainChangeManagement   FabricDomain = "Change Management"
	DomainOther              FabricDomain = "Other"
)

// IsValid returns true if the domain is recognised.
func (d FabricDomain) IsValid() bool {
	switch d {
	case DomainIncidentManagement, DomainProblemManagement,
		DomainChangeManagement, DomainOther:
		return true
	default:
		return false
	}
}

// Fabric is a named knowledge-fabric ingestion job plus its runtime status.
// The backend is the source of truth: the client never infers a status
// transition locally, it always re-derives status from the latest fetch.
type Fabric struct {
	// ID is assigned by the backend on creation and immutable thereafter.
	ID string `json:"id"`

	// Name is the human-readable fabric name.
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Domain categorises the fabric's subject area.
	Domain FabricDomain `json:"domain"`

	// Status is the current build pipeline stage.
	Status BuildStatus `json:"status"`

	// Sources holds the configured data sources.
	Sources SourceConfig `json:"sources"`

	// ChunkSize is the chunking window in tokens. Positive.
	ChunkSize int `json:"chunkSize"`

	// ChunkOverlap is the overlap between adjacent chunks. Non-negative
	// and strictly less than ChunkSize.
	ChunkOverlap int `json:"chunkOverlap"`

	// EmbeddingModel is an opaque model identifier validated by the backend.
	EmbeddingModel string `json:"embeddingModel"`

	// ChromaCollection is the target vector collection name.
	ChromaCollection string `json:"chromaCollection"`

	// Counters populated by the backend as build stages complete.
	// nil means "not yet known", which is distinct from zero.
	DocumentsCount *int `json:"documentsCount,omitempty"`
	ChunksCount    *int `json:"chunksCount,omitempty"`
	GraphNodes     *int `json:"graphNodes,omitempty"`
	GraphEdges     *int `json:"graphEdges,omitempty"`

	// Error holds the failure reason when Status is Error.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FabricConfig is the input for creating a fabric. The backend assigns
// the ID, timestamps and the initial Draft status.
type FabricConfig struct {
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty"`
	Domain           FabricDomain `json:"domain"`
	Sources          SourceConfig `json:"sources"`
	ChunkSize        int          `json:"chunkSize"`
	ChunkOverlap     int          `json:"chunkOverlap"`
	EmbeddingModel   string       `json:"embeddingModel"`
	ChromaCollection string       `json:"chromaCollection"`
}

// Validate checks the creation contract. allowMultipleSources is the
// registry-boundary policy: the generic wizard permits combining source
// types, the specialised wizards allow exactly one.
func (c FabricConfig) Validate(allowMultipleSources bool) error {
	if c.Name == "" {
		return &PreconditionError{Reason: "fabric name is required", Err: ErrInvalidInput}
	}
	if c.ChromaCollection == "" {
		return &PreconditionError{Reason: "collection name is required", Err: ErrInvalidInput}
	}
	if c.Domain != "" && !c.Domain.IsValid() {
		return &PreconditionError{Reason: fmt.Sprintf("unknown domain %q", c.Domain), Err: ErrInvalidInput}
	}
	if c.ChunkSize <= 0 {
		return &PreconditionError{Reason: "chunk size must be positive", Err: ErrInvalidInput}
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return &PreconditionError{Reason: "chunk overlap must be non-negative and smaller than chunk size", Err: ErrInvalidInput}
	}
	if !allowMultipleSources && c.Sources.Count() > 1 {
		return &PreconditionError{Reason: "only one data source may be configured per fabric", Err: ErrInvalidInput}
	}
	return nil
}

// BuildAck is the backend's acknowledgement of a build trigger.
type BuildAck struct {
	Status        BuildStatus `json:"status"`
	Message       string      `json:"message,omitempty"`
	EstimatedTime string      `json:"estimatedTime,omitempty"`
}

// UploadAck is the backend's acknowledgement of a document upload.
type UploadAck struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Files   []string `json:"files,omitempty"`
}

// UploadFile is one document to upload into a fabric.
type UploadFile struct {
	Name    string
	Content []byte
}
