package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSourceConfig_Count counts only active variants
func TestSourceConfig_Count(t *testing.T) {
	tests := []struct {
		name     string
		sources  SourceConfig
		expected int
	}{
		{
			name:     "empty config",
			sources:  SourceConfig{},
			expected: 0,
		},
		{
			name: "disabled servicenow does not count",
			sources: SourceConfig{
				ServiceNow: &ServiceNowSource{Enabled: false, InstanceURL: "https://x.service-now.com"},
			},
			expected: 0,
		},
		{
			name: "uploads without files does not count",
			sources: SourceConfig{
				Uploads: &UploadsSource{},
			},
			expected: 0,
		},
		{
			name: "one of each",
			sources: SourceConfig{
				ServiceNow: &ServiceNowSource{Enabled: true},
				SharePoint: &SharePointSource{Enabled: true},
				Uploads:    &UploadsSource{FileNames: []string{"runbook.pdf"}},
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sources.Count())
			assert.Equal(t, tt.expected == 0, tt.sources.Empty())
		})
	}
}

// TestSourceConfig_Primary tests the backend ingestion precedence
func TestSourceConfig_Primary(t *testing.T) {
	assert.Equal(t, "", SourceConfig{}.Primary())

	all := SourceConfig{
		ServiceNow: &ServiceNowSource{Enabled: true},
		SharePoint: &SharePointSource{Enabled: true},
		Uploads:    &UploadsSource{FileNames: []string{"a.txt"}},
	}
	assert.Equal(t, SourceTypeUploads, all.Primary())

	noUploads := all
	noUploads.Uploads = nil
	assert.Equal(t, SourceTypeServiceNow, noUploads.Primary())

	spOnly := SourceConfig{SharePoint: &SharePointSource{Enabled: true, SiteURL: "https://x.sharepoint.com"}}
	assert.Equal(t, SourceTypeSharePoint, spOnly.Primary())
}
