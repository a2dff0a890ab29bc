package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, theme.Primary)
	assert.NotEmpty(t, theme.Secondary)
	assert.NotEmpty(t, theme.Foreground)
	assert.NotEmpty(t, theme.Muted)
	assert.NotEmpty(t, theme.Success)
	assert.NotEmpty(t, theme.Warning)
	assert.NotEmpty(t, theme.Error)
	assert.NotEmpty(t, theme.Border)
}

func TestNewStyles(t *testing.T) {
	t.Run("with theme", func(t *testing.T) {
		theme := DefaultTheme()
		s := NewStyles(theme)

		require.NotNil(t, s)
		assert.Equal(t, theme, s.Theme())
	})

	t.Run("nil theme falls back to default", func(t *testing.T) {
		s := NewStyles(nil)

		require.NotNil(t, s)
		require.NotNil(t, s.Theme())
	})
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}

func TestStyles_StatusStyle(t *testing.T) {
	s := DefaultStyles()

	tests := []struct {
		name   string
		status domain.BuildStatus
		want   string
	}{
		{"ready is success", domain.StatusReady, s.Success.Render("x")},
		{"error is error", domain.StatusError, s.Error.Render("x")},
		{"draft is muted", domain.StatusDraft, s.Muted.Render("x")},
		{"ingesting is warning", domain.StatusIngesting, s.Warning.Render("x")},
		{"chunking is warning", domain.StatusChunking, s.Warning.Render("x")},
		{"vectorizing is warning", domain.StatusVectorizing, s.Warning.Render("x")},
		{"graph building is warning", domain.StatusGraphBuilding, s.Warning.Render("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.StatusStyle(tt.status).Render("x")
			assert.Equal(t, tt.want, got)
		})
	}
}
