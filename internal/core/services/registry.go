package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
	"github.com/serviceops-labs/fabric-studio/internal/logger"
)

// Ensure RegistryService implements the interface.
var _ driving.FabricRegistry = (*RegistryService)(nil)

// RegistryService is the client-side source of truth for the fabric set.
// It mediates all mutating operations and re-fetches the full list after
// every successful mutation: consistency over efficiency, because only the
// backend knows true build progress.
type RegistryService struct {
	api driven.FabricAPI

	// allowMultipleSources is the source-cardinality policy applied at
	// creation. The specialised wizards configure exactly one source;
	// the generic wizard may combine them.
	allowMultipleSources bool

	mu         sync.RWMutex
	fabrics    []domain.Fabric
	lastErr    error
	loading    bool
	selectedID string
	listeners  []func()
}

// NewRegistryService creates a fabric registry backed by the given API.
func NewRegistryService(api driven.FabricAPI, allowMultipleSources bool) *RegistryService {
	return &RegistryService{
		api:                  api,
		allowMultipleSources: allowMultipleSources,
	}
}

// OnChange registers a change listener.
func (s *RegistryService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// notify invokes listeners outside the lock.
func (s *RegistryService) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

// Fabrics returns a copy of the current known fabric set.
func (s *RegistryService) Fabrics() []domain.Fabric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Fabric, len(s.fabrics))
	copy(result, s.fabrics)
	return result
}

// LastError returns the error from the most recent list fetch, or nil.
func (s *RegistryService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Loading reports whether a non-silent reload is in progress.
func (s *RegistryService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Reload fetches the full fabric set, toggling the loading indicator.
func (s *RegistryService) Reload(ctx context.Context) error {
	return s.refresh(ctx, false)
}

// ReloadSilent fetches the full fabric set without toggling the loading
// indicator. Used by the poller so background refreshes don't flicker.
func (s *RegistryService) ReloadSilent(ctx context.Context) error {
	return s.refresh(ctx, true)
}

// refresh performs the list fetch. On failure the visible set becomes
// empty and the error is retained; callers distinguish "empty" from
// "empty due to error" via LastError. Responses apply in arrival order:
// overlapping fetches are last-write-wins and self-correct on the next tick.
func (s *RegistryService) refresh(ctx context.Context, silent bool) error {
	if !silent {
		s.mu.Lock()
		s.loading = true
		s.mu.Unlock()
		s.notify()
	}

	fabrics, err := s.api.ListFabrics(ctx)

	s.mu.Lock()
	if !silent {
		s.loading = false
	}
	if err != nil {
		s.fabrics = nil
		s.lastErr = err
	} else {
		s.fabrics = fabrics
		s.lastErr = nil
		// Drop a selection whose fabric no longer exists server-side.
		if s.selectedID != "" && s.findLocked(s.selectedID) == nil {
			s.selectedID = ""
		}
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		logger.Warn("fabric list fetch failed: %v", err)
	}
	return err
}

// findLocked returns the fabric with the given ID. Caller holds the lock.
func (s *RegistryService) findLocked(id string) *domain.Fabric {
	for i := range s.fabrics {
		if s.fabrics[i].ID == id {
			return &s.fabrics[i]
		}
	}
	return nil
}

// Get fetches a single fabric by ID from the backend.
func (s *RegistryService) Get(ctx context.Context, id string) (*domain.Fabric, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.api.GetFabric(ctx, id)
}

// Create registers a new fabric after validating the creation contract.
// On success the full set is re-fetched. Creating does not start a build.
func (s *RegistryService) Create(ctx context.Context, cfg domain.FabricConfig) (*domain.Fabric, error) {
	if err := cfg.Validate(s.allowMultipleSources); err != nil {
		return nil, err
	}

	fabric, err := s.api.CreateFabric(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create fabric: %w", err)
	}

	logger.Info("created fabric %s (%s)", fabric.ID, fabric.Name)
	//nolint:errcheck // Refresh failure is visible via LastError; creation succeeded.
	_ = s.refresh(ctx, false)
	return fabric, nil
}

// TriggerBuild starts (or restarts) the asynchronous build pipeline.
// Failures come back as *domain.BuildTriggerError so callers can surface
// them distinctly from creation failure: the fabric exists and remains
// visible in Draft or Error for retry.
func (s *RegistryService) TriggerBuild(ctx context.Context, id string) (*domain.BuildAck, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	ack, err := s.api.TriggerBuild(ctx, id)
	if err != nil {
		msg := err.Error()
		var srvErr *domain.ServerError
		if errors.As(err, &srvErr) {
			msg = srvErr.Message
		}
		return nil, &domain.BuildTriggerError{FabricID: id, Message: msg, Err: err}
	}

	logger.Info("build triggered for fabric %s: %s", id, ack.Status)
	//nolint:errcheck // Refresh failure is visible via LastError; the trigger succeeded.
	_ = s.refresh(ctx, false)
	return ack, nil
}

// Upload sends documents into a fabric's uploads source and re-fetches.
func (s *RegistryService) Upload(ctx context.Context, id string, files []domain.UploadFile) (*domain.UploadAck, error) {
	if id == "" || len(files) == 0 {
		return nil, domain.ErrInvalidInput
	}

	ack, err := s.api.UploadDocuments(ctx, id, files)
	if err != nil {
		return nil, fmt.Errorf("upload documents: %w", err)
	}

	logger.Info("uploaded %d file(s) to fabric %s", len(files), id)
	//nolint:errcheck // Refresh failure is visible via LastError; the upload succeeded.
	_ = s.refresh(ctx, false)
	return ack, nil
}

// Delete removes a fabric server-side. A selection referencing the deleted
// fabric is cleared before it can dangle; other selections are untouched.
func (s *RegistryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}

	if err := s.api.DeleteFabric(ctx, id); err != nil {
		return fmt.Errorf("delete fabric: %w", err)
	}

	s.mu.Lock()
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.mu.Unlock()

	logger.Info("deleted fabric %s", id)
	//nolint:errcheck // Refresh failure is visible via LastError; the delete succeeded.
	_ = s.refresh(ctx, false)
	return nil
}

// Select marks a fabric in the current set as the chat target.
func (s *RegistryService) Select(id string) error {
	s.mu.Lock()
	if s.findLocked(id) == nil {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	s.selectedID = id
	s.mu.Unlock()
	s.notify()
	return nil
}

// Selected returns a copy of the currently selected fabric, or nil.
func (s *RegistryService) Selected() *domain.Fabric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.findLocked(s.selectedID)
	if f == nil {
		return nil
	}
	selected := *f
	return &selected
}

// ClearSelection drops the current selection.
func (s *RegistryService) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
	s.notify()
}

// AnyBuilding reports whether any known fabric is mid-build. This is the
// poller's level trigger: non-terminal and not Draft.
func (s *RegistryService) AnyBuilding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.fabrics {
		if s.fabrics[i].Status.IsBuilding() {
			return true
		}
	}
	return false
}
