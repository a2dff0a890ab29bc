package driving

import (
	"context"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// FabricRegistry is the single source of truth for the set of fabrics as
// known to the client. All mutating operations go through it, and every
// successful mutation triggers a full re-fetch rather than local patching:
// the backend is the only place that knows true build progress, so a local
// optimistic status update would drift.
type FabricRegistry interface {
	// Fabrics returns the current known fabric set.
	Fabrics() []domain.Fabric

	// LastError returns the error from the most recent list fetch, or nil.
	// After a failed fetch the visible fabric set is empty; callers use
	// this flag to distinguish "empty" from "empty due to error".
	LastError() error

	// Loading reports whether a non-silent reload is in progress.
	Loading() bool

	// Reload fetches the full fabric set, toggling the loading indicator.
	Reload(ctx context.Context) error

	// ReloadSilent fetches the full fabric set without toggling the
	// loading indicator. Used by background polling to avoid UI flicker.
	ReloadSilent(ctx context.Context) error

	// Get fetches a single fabric by ID from the backend.
	Get(ctx context.Context, id string) (*domain.Fabric, error)

	// Create registers a new fabric. The backend assigns ID, timestamps
	// and the initial Draft status. Creating does not start a build.
	Create(ctx context.Context, cfg domain.FabricConfig) (*domain.Fabric, error)

	// TriggerBuild starts (or restarts) the asynchronous build pipeline.
	// Failures surface as *domain.BuildTriggerError, distinct from
	// creation failure: the fabric remains visible for retry.
	TriggerBuild(ctx context.Context, id string) (*domain.BuildAck, error)

	// Upload sends documents into a fabric's uploads source.
	Upload(ctx context.Context, id string, files []domain.UploadFile) (*domain.UploadAck, error)

	// Delete removes the fabric and all derived data server-side. If the
	// deleted fabric is currently selected, the selection is cleared
	// before it can dangle.
	Delete(ctx context.Context, id string) error

	// Select marks a fabric as the current chat target.
	Select(id string) error

	// Selected returns the currently selected fabric, or nil.
	Selected() *domain.Fabric

	// ClearSelection drops the current selection.
	ClearSelection()

	// AnyBuilding reports whether any known fabric is in a non-terminal,
	// non-Draft state. This is the poller's level trigger.
	AnyBuilding() bool

	// OnChange registers a callback invoked after every change to the
	// known fabric set or selection. Callbacks must be fast and must not
	// call back into the registry synchronously.
	OnChange(fn func())
}
