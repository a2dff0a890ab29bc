package api

import (
	"context"
	"net/http"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// TestServiceNow asks the backend to probe a ServiceNow instance.
func (c *Client) TestServiceNow(ctx context.Context, src domain.ServiceNowSource) (*domain.ConnectionResult, error) {
	body := struct {
		InstanceURL string   `json:"instanceUrl"`
		Tables      []string `json:"tables"`
	}{
		InstanceURL: src.InstanceURL,
		Tables:      src.Tables,
	}

	var result domain.ConnectionResult
	if err := c.doJSON(ctx, "test servicenow connection", http.MethodPost, "/api/connections/servicenow/test", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestSharePoint asks the backend to probe a SharePoint site.
func (c *Client) TestSharePoint(ctx context.Context, src domain.SharePointSource) (*domain.ConnectionResult, error) {
	body := struct {
		SiteURL string `json:"siteUrl"`
		Library string `json:"library,omitempty"`
	}{
		SiteURL: src.SiteURL,
		Library: src.Library,
	}

	var result domain.ConnectionResult
	if err := c.doJSON(ctx, "test sharepoint connection", http.MethodPost, "/api/connections/sharepoint/test", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckServiceNowCredentials asks whether backend-side ServiceNow
// credentials are configured.
func (c *Client) CheckServiceNowCredentials(ctx context.Context) (*domain.CredentialStatus, error) {
	var status domain.CredentialStatus
	if err := c.doJSON(ctx, "check servicenow credentials", http.MethodGet, "/api/connections/servicenow/check-credentials", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
