package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

func resetConnectionFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		connSNURL = ""
		connSNTables = nil
		connSPURL = ""
		connSPLib = ""
	})
}

func TestConnections_ServiceNow_Success(t *testing.T) {
	resetConnectionFlags(t)
	tester := &mockConnections{
		snResult: &domain.ConnectionResult{Success: true, Message: "Connection successful"},
	}
	withServices(t, Config{Connections: tester})

	output, err := executeCommand(t, "connections", "servicenow",
		"--url", "https://example.service-now.com",
		"--tables", "incident,problem",
	)

	require.NoError(t, err)
	assert.Contains(t, output, "OK: Connection successful")
	assert.True(t, tester.snSource.Enabled)
	assert.Equal(t, "https://example.service-now.com", tester.snSource.InstanceURL)
	assert.Equal(t, []string{"incident", "problem"}, tester.snSource.Tables)
}

func TestConnections_ServiceNow_Failure(t *testing.T) {
	resetConnectionFlags(t)
	tester := &mockConnections{
		snResult: &domain.ConnectionResult{Success: false, Message: "Instance not reachable"},
	}
	withServices(t, Config{Connections: tester})

	output, err := executeCommand(t, "connections", "servicenow", "--url", "https://bad.example.com")

	require.NoError(t, err)
	assert.Contains(t, output, "FAILED: Instance not reachable")
}

func TestConnections_ServiceNow_TransportError(t *testing.T) {
	resetConnectionFlags(t)
	tester := &mockConnections{err: errors.New("backend unreachable")}
	withServices(t, Config{Connections: tester})

	_, err := executeCommand(t, "connections", "servicenow", "--url", "https://example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unreachable")
}

func TestConnections_SharePoint(t *testing.T) {
	resetConnectionFlags(t)
	tester := &mockConnections{
		spResult: &domain.ConnectionResult{Success: true, Message: "Site reachable"},
	}
	withServices(t, Config{Connections: tester})

	output, err := executeCommand(t, "connections", "sharepoint",
		"--url", "https://example.sharepoint.com/sites/kb",
		"--library", "Documents",
	)

	require.NoError(t, err)
	assert.Contains(t, output, "OK: Site reachable")
	assert.Equal(t, "https://example.sharepoint.com/sites/kb", tester.spSource.SiteURL)
	assert.Equal(t, "Documents", tester.spSource.Library)
}

func TestConnections_CheckCredentials_Configured(t *testing.T) {
	resetConnectionFlags(t)
	tester := &mockConnections{
		creds: &domain.CredentialStatus{Configured: true},
	}
	withServices(t, Config{Connections: tester})

	output, err := executeCommand(t, "connections", "check-credentials")

	require.NoError(t, err)
	assert.Contains(t, output, "credentials are configured")
}

func TestConnections_CheckCredentials_Missing(t *testing.T) {
	resetConnectionFlags(t)
	tester := &mockConnections{
		creds: &domain.CredentialStatus{Configured: false, Message: "username not set"},
	}
	withServices(t, Config{Connections: tester})

	output, err := executeCommand(t, "connections", "check-credentials")

	require.NoError(t, err)
	assert.Contains(t, output, "NOT configured")
	assert.Contains(t, output, "username not set")
	assert.Contains(t, output, "SERVICENOW_USERNAME")
}

func TestConnections_NoService(t *testing.T) {
	resetConnectionFlags(t)
	withServices(t, Config{})

	_, err := executeCommand(t, "connections", "servicenow", "--url", "https://example.com")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection service not configured")
}
