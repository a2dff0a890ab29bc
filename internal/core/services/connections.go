package services

import (
	"context"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
)

// Ensure ConnectionService implements the interface.
var _ driving.ConnectionTester = (*ConnectionService)(nil)

// ConnectionService checks upstream connector reachability through the
// backend. Stateless: each call is an independent request/response pair
// with no retry policy.
type ConnectionService struct {
	api driven.ConnectionAPI
}

// NewConnectionService creates a connection tester backed by the API.
func NewConnectionService(api driven.ConnectionAPI) *ConnectionService {
	return &ConnectionService{api: api}
}

// TestServiceNow checks that the backend can reach a ServiceNow instance.
func (s *ConnectionService) TestServiceNow(ctx context.Context, src domain.ServiceNowSource) (*domain.ConnectionResult, error) {
	if src.InstanceURL == "" {
		return nil, &domain.PreconditionError{Reason: "instance URL is required", Err: domain.ErrInvalidInput}
	}
	if len(src.Tables) == 0 {
		return nil, &domain.PreconditionError{Reason: "at least one table is required", Err: domain.ErrInvalidInput}
	}
	return s.api.TestServiceNow(ctx, src)
}

// TestSharePoint checks that the backend can reach a SharePoint site.
// Library is optional.
func (s *ConnectionService) TestSharePoint(ctx context.Context, src domain.SharePointSource) (*domain.ConnectionResult, error) {
	if src.SiteURL == "" {
		return nil, &domain.PreconditionError{Reason: "site URL is required", Err: domain.ErrInvalidInput}
	}
	return s.api.TestSharePoint(ctx, src)
}

// CheckServiceNowCredentials reports whether backend-side ServiceNow
// credentials are configured.
func (s *ConnectionService) CheckServiceNowCredentials(ctx context.Context) (*domain.CredentialStatus, error) {
	return s.api.CheckServiceNowCredentials(ctx)
}
