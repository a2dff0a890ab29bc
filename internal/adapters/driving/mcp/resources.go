package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for fabric resources.
	uriScheme = "fabric://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing fabrics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "fabrics",
		Name:        "fabrics",
		Description: "List of all knowledge fabrics",
		MIMEType:    "application/json",
	}, s.handleFabricsResource)

	// Template for a single fabric's full configuration and status.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "fabrics/{fabricId}",
		Name:        "fabric-detail",
		Description: "Configuration and build status of a specific fabric",
		MIMEType:    "application/json",
	}, s.handleFabricDetailResource)
}

// handleFabricsResource returns a list of all fabrics.
func (s *Server) handleFabricsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if err := s.ports.Registry.Reload(ctx); err != nil {
		return nil, fmt.Errorf("listing fabrics: %w", err)
	}

	fabrics := s.ports.Registry.Fabrics()
	infos := make([]FabricSummary, len(fabrics))
	for i := range fabrics {
		infos[i] = summarise(&fabrics[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling fabrics: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleFabricDetailResource returns one fabric's full record.
func (s *Server) handleFabricDetailResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract fabricId from URI: fabric://fabrics/{fabricId}
	fabricID := extractFabricID(req.Params.URI)
	if fabricID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	fabric, err := s.ports.Registry.Get(ctx, fabricID)
	if err != nil {
		return nil, fmt.Errorf("getting fabric: %w", err)
	}

	data, err := json.MarshalIndent(fabric, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling fabric: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFabricID extracts the fabric ID from a URI like fabric://fabrics/{fabricId}.
func extractFabricID(uri string) string {
	const prefix = uriScheme + "fabrics/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
