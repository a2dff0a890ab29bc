package driven

import (
	"context"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// FabricAPI is the backend's fabric contract. Implementations translate
// transport failures into *domain.NetworkError and non-2xx responses into
// *domain.ServerError carrying the server's message verbatim.
type FabricAPI interface {
	// ListFabrics fetches the full current fabric set. No pagination,
	// no filtering.
	ListFabrics(ctx context.Context) ([]domain.Fabric, error)

	// GetFabric fetches a single fabric by ID.
	GetFabric(ctx context.Context, id string) (*domain.Fabric, error)

	// CreateFabric registers a new fabric in Draft status.
	CreateFabric(ctx context.Context, cfg domain.FabricConfig) (*domain.Fabric, error)

	// TriggerBuild starts the asynchronous build pipeline.
	TriggerBuild(ctx context.Context, id string) (*domain.BuildAck, error)

	// UploadDocuments sends files into a fabric via multipart upload.
	UploadDocuments(ctx context.Context, id string, files []domain.UploadFile) (*domain.UploadAck, error)

	// DeleteFabric removes the fabric and all derived data server-side.
	DeleteFabric(ctx context.Context, id string) error
}

// ChatAPI is the backend's chat contract: full log in, full log out.
type ChatAPI interface {
	// SendChat ships the entire updated message log and returns the
	// backend's authoritative log plus the conversation ID.
	SendChat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)

	// SubmitFeedback records a rating for an assistant message.
	SubmitFeedback(ctx context.Context, fb domain.Feedback) error
}

// ConnectionAPI is the backend's connector test contract.
type ConnectionAPI interface {
	// TestServiceNow asks the backend to probe a ServiceNow instance.
	TestServiceNow(ctx context.Context, src domain.ServiceNowSource) (*domain.ConnectionResult, error)

	// TestSharePoint asks the backend to probe a SharePoint site.
	TestSharePoint(ctx context.Context, src domain.SharePointSource) (*domain.ConnectionResult, error)

	// CheckServiceNowCredentials asks whether backend-side ServiceNow
	// credentials are configured.
	CheckServiceNowCredentials(ctx context.Context) (*domain.CredentialStatus, error)
}
