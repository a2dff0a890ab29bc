package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// ServiceNow credential environment variables.
const (
	EnvServiceNowUsername = "SERVICENOW_USERNAME"
	EnvServiceNowPassword = "SERVICENOW_PASSWORD"
)

// CredentialSource reports whether ServiceNow credentials are available
// to the backend.
type CredentialSource interface {
	Configured() bool
}

// EnvCredentials reads ServiceNow credentials from the environment.
type EnvCredentials struct{}

// Configured returns true when both username and password are set.
func (EnvCredentials) Configured() bool {
	return os.Getenv(EnvServiceNowUsername) != "" && os.Getenv(EnvServiceNowPassword) != ""
}

// StaticCredentials is a fixed-answer credential source for tests.
type StaticCredentials bool

// Configured returns the fixed answer.
func (s StaticCredentials) Configured() bool { return bool(s) }

// ConnectionHandler serves the connector probe endpoints. Probe results
// are reported as success/message pairs, not errors: a failed probe is
// a valid answer.
type ConnectionHandler struct {
	log   *Logger
	creds CredentialSource
}

// NewConnectionHandler creates the connection endpoint handler.
func NewConnectionHandler(log *Logger, creds CredentialSource) *ConnectionHandler {
	return &ConnectionHandler{
		log:   log.With("handler", "ConnectionHandler"),
		creds: creds,
	}
}

// TestServiceNow probes a ServiceNow instance. The probe is simulated:
// a plausible instance URL passes, anything else fails with a reason.
func (h *ConnectionHandler) TestServiceNow(c *gin.Context) {
	var req struct {
		InstanceURL string   `json:"instanceUrl"`
		Tables      []string `json:"tables"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.InstanceURL == "" {
		respondError(c, http.StatusBadRequest, "instanceUrl is required")
		return
	}
	if len(req.Tables) == 0 {
		respondError(c, http.StatusBadRequest, "at least one table is required")
		return
	}

	if !h.creds.Configured() {
		c.JSON(http.StatusOK, domain.ConnectionResult{
			Success: false,
			Message: "ServiceNow credentials are not configured",
		})
		return
	}
	if !strings.Contains(req.InstanceURL, "service-now.com") {
		c.JSON(http.StatusOK, domain.ConnectionResult{
			Success: false,
			Message: "Could not reach instance at " + req.InstanceURL,
		})
		return
	}

	h.log.Info("servicenow probe ok", "instance", req.InstanceURL, "tables", len(req.Tables))
	c.JSON(http.StatusOK, domain.ConnectionResult{
		Success: true,
		Message: "Connected to " + req.InstanceURL,
	})
}

// TestSharePoint probes a SharePoint site.
func (h *ConnectionHandler) TestSharePoint(c *gin.Context) {
	var req struct {
		SiteURL string `json:"siteUrl"`
		Library string `json:"library"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.SiteURL == "" {
		respondError(c, http.StatusBadRequest, "siteUrl is required")
		return
	}

	if !strings.Contains(req.SiteURL, "sharepoint.com") {
		c.JSON(http.StatusOK, domain.ConnectionResult{
			Success: false,
			Message: "Could not reach site at " + req.SiteURL,
		})
		return
	}

	h.log.Info("sharepoint probe ok", "site", req.SiteURL)
	c.JSON(http.StatusOK, domain.ConnectionResult{
		Success: true,
		Message: "Connected to " + req.SiteURL,
	})
}

// CheckCredentials reports whether backend-side ServiceNow credentials
// are configured.
func (h *ConnectionHandler) CheckCredentials(c *gin.Context) {
	if h.creds.Configured() {
		c.JSON(http.StatusOK, domain.CredentialStatus{Configured: true})
		return
	}
	c.JSON(http.StatusOK, domain.CredentialStatus{
		Configured: false,
		Message:    "ServiceNow credentials are not configured",
	})
}
