package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

func resetUploadFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		uploadWatchDir = ""
	})
}

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestUpload(t *testing.T) {
	resetUploadFlags(t)
	dir := t.TempDir()
	first := writeTempFile(t, dir, "runbook.pdf", "pdf bytes")
	second := writeTempFile(t, dir, "faq.md", "# FAQ")

	registry := &mockRegistry{
		uploadAck: &domain.UploadAck{
			Success: true,
			Files:   []string{"runbook.pdf", "faq.md"},
		},
	}
	withServices(t, Config{Registry: registry})

	output, err := executeCommand(t, "upload", "f1", first, second)

	require.NoError(t, err)
	assert.Contains(t, output, "Uploaded 2 files to fabric f1")
	assert.Contains(t, output, "runbook.pdf")
	assert.Contains(t, output, "faq.md")

	require.Len(t, registry.uploadedFiles, 2)
	assert.Equal(t, "runbook.pdf", registry.uploadedFiles[0].Name)
	assert.Equal(t, []byte("pdf bytes"), registry.uploadedFiles[0].Content)
}

func TestUpload_MissingFile(t *testing.T) {
	resetUploadFlags(t)
	withServices(t, Config{Registry: &mockRegistry{}})

	_, err := executeCommand(t, "upload", "f1", "/nonexistent/file.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestUpload_NoFilesAndNoWatch(t *testing.T) {
	resetUploadFlags(t)
	withServices(t, Config{Registry: &mockRegistry{}})

	_, err := executeCommand(t, "upload", "f1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files given")
}

func TestUpload_BackendFailure(t *testing.T) {
	resetUploadFlags(t)
	dir := t.TempDir()
	path := writeTempFile(t, dir, "runbook.pdf", "pdf bytes")

	registry := &mockRegistry{err: domain.ErrNotFound}
	withServices(t, Config{Registry: registry})

	_, err := executeCommand(t, "upload", "f1", path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpload_NoService(t *testing.T) {
	resetUploadFlags(t)
	withServices(t, Config{})

	_, err := executeCommand(t, "upload", "f1", "whatever.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry service not configured")
}
