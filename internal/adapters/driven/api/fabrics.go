package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// ListFabrics fetches the full current fabric set.
func (c *Client) ListFabrics(ctx context.Context) ([]domain.Fabric, error) {
	var fabrics []domain.Fabric
	if err := c.doJSON(ctx, "list fabrics", http.MethodGet, "/api/fabrics", nil, &fabrics); err != nil {
		return nil, err
	}
	return fabrics, nil
}

// GetFabric fetches a single fabric by ID.
func (c *Client) GetFabric(ctx context.Context, id string) (*domain.Fabric, error) {
	var fabric domain.Fabric
	path := "/api/fabrics/" + url.PathEscape(id)
	if err := c.doJSON(ctx, "get fabric", http.MethodGet, path, nil, &fabric); err != nil {
		return nil, err
	}
	return &fabric, nil
}

// CreateFabric registers a new fabric. The backend assigns the ID and the
// initial Draft status.
func (c *Client) CreateFabric(ctx context.Context, cfg domain.FabricConfig) (*domain.Fabric, error) {
	var fabric domain.Fabric
	if err := c.doJSON(ctx, "create fabric", http.MethodPost, "/api/fabrics", cfg, &fabric); err != nil {
		return nil, err
	}
	return &fabric, nil
}

// TriggerBuild starts the asynchronous build pipeline for a fabric.
func (c *Client) TriggerBuild(ctx context.Context, id string) (*domain.BuildAck, error) {
	var ack domain.BuildAck
	path := "/api/fabrics/" + url.PathEscape(id) + "/build"
	if err := c.doJSON(ctx, "trigger build", http.MethodPost, path, nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// UploadDocuments sends files into a fabric as a multipart form.
func (c *Client) UploadDocuments(ctx context.Context, id string, files []domain.UploadFile) (*domain.UploadAck, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("fabricId", id); err != nil {
		return nil, fmt.Errorf("write form field: %w", err)
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, fmt.Errorf("create form file %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("write form file %s: %w", f.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalise multipart form: %w", err)
	}

	path := "/api/fabrics/" + url.PathEscape(id) + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var ack domain.UploadAck
	if err := c.send("upload documents", req, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// DeleteFabric removes the fabric and all derived data server-side.
func (c *Client) DeleteFabric(ctx context.Context, id string) error {
	path := "/api/fabrics/" + url.PathEscape(id)
	return c.doJSON(ctx, "delete fabric", http.MethodDelete, path, nil, nil)
}
