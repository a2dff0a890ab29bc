package driving

import (
	"context"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// ConnectionTester checks upstream connector reachability through the
// backend. Test failures are reported in the result, not as errors; only
// transport-level problems return an error. No retry policy is applied.
type ConnectionTester interface {
	// TestServiceNow checks that the backend can reach a ServiceNow
	// instance and its tables.
	TestServiceNow(ctx context.Context, src domain.ServiceNowSource) (*domain.ConnectionResult, error)

	// TestSharePoint checks that the backend can reach a SharePoint site.
	TestSharePoint(ctx context.Context, src domain.SharePointSource) (*domain.ConnectionResult, error)

	// CheckServiceNowCredentials reports whether the backend has
	// ServiceNow credentials configured.
	CheckServiceNowCredentials(ctx context.Context) (*domain.CredentialStatus, error)
}
