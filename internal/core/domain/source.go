package domain

// SourceConfig holds the data sources configured for a fabric. One or more
// variants may be present at the same time; whether more than one is
// accepted at creation is a registry-boundary policy, not a type constraint.
type SourceConfig struct {
	ServiceNow *ServiceNowSource `json:"serviceNow,omitempty"`
	SharePoint *SharePointSource `json:"sharePoint,omitempty"`
	Uploads    *UploadsSource    `json:"uploads,omitempty"`
}

// ServiceNowSource pulls records from ServiceNow tables.
type ServiceNowSource struct {
	// Enabled gates whether the source participates in builds.
	Enabled bool `json:"enabled"`

	// InstanceURL is the ServiceNow instance base URL.
	InstanceURL string `json:"instanceUrl"`

	// Tables lists the ServiceNow tables to ingest (e.g. "incident").
	Tables []string `json:"tables"`
}

// SharePointSource pulls documents from a SharePoint library.
type SharePointSource struct {
	Enabled bool   `json:"enabled"`
	SiteURL string `json:"siteUrl"`
	Library string `json:"library,omitempty"`
}

// UploadsSource holds documents uploaded directly into the fabric.
type UploadsSource struct {
	FileNames []string `json:"fileNames"`
}

// Count returns the number of active source variants.
func (s SourceConfig) Count() int {
	n := 0
	if s.ServiceNow != nil && s.ServiceNow.Enabled {
		n++
	}
	if s.SharePoint != nil && s.SharePoint.Enabled {
		n++
	}
	if s.Uploads != nil && len(s.Uploads.FileNames) > 0 {
		n++
	}
	return n
}

// Empty returns true when no source is configured.
func (s SourceConfig) Empty() bool {
	return s.Count() == 0
}

// Primary returns the source type the build pipeline ingests from, using
// the same precedence as the backend: uploads, then ServiceNow, then
// SharePoint. Empty string when no source is configured.
func (s SourceConfig) Primary() string {
	switch {
	case s.Uploads != nil && len(s.Uploads.FileNames) > 0:
		return SourceTypeUploads
	case s.ServiceNow != nil && s.ServiceNow.Enabled:
		return SourceTypeServiceNow
	case s.SharePoint != nil && s.SharePoint.Enabled:
		return SourceTypeSharePoint
	default:
		return ""
	}
}

// Source type names as they appear in build messages.
const (
	SourceTypeServiceNow = "servicenow"
	SourceTypeSharePoint = "sharepoint"
	SourceTypeUploads    = "upload"
)

// ConnectionResult is the outcome of a connection test. Test failures are
// reported as a boolean plus message, not as an error: only transport-level
// problems surface as errors.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CredentialStatus reports whether backend-side connector credentials are
// configured.
type CredentialStatus struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message,omitempty"`
}
