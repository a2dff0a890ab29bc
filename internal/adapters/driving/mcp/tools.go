package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

// ListFabricsInput is the input schema for the list_fabrics tool.
type ListFabricsInput struct{}

// ListFabricsOutput is the output schema for the list_fabrics tool.
type ListFabricsOutput struct {
	Fabrics []FabricSummary `json:"fabrics"`
	Count   int             `json:"count"`
}

// FabricSummary represents one fabric in tool output.
type FabricSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain,omitempty"`
	Status string `json:"status"`
	Source string `json:"source,omitempty"`
	Error  string `json:"error,omitempty"`
}

// FabricStatusInput is the input schema for the fabric_status tool.
type FabricStatusInput struct {
	FabricID string `json:"fabric_id" jsonschema:"the fabric to inspect"`
}

// FabricStatusOutput is the output schema for the fabric_status tool.
type FabricStatusOutput struct {
	FabricSummary
	Building   bool `json:"building"`
	Documents  *int `json:"documents,omitempty"`
	Chunks     *int `json:"chunks,omitempty"`
	GraphNodes *int `json:"graph_nodes,omitempty"`
	GraphEdges *int `json:"graph_edges,omitempty"`
}

// TriggerBuildInput is the input schema for the trigger_build tool.
type TriggerBuildInput struct {
	FabricID string `json:"fabric_id" jsonschema:"the fabric to build"`
}

// TriggerBuildOutput is the output schema for the trigger_build tool.
type TriggerBuildOutput struct {
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	EstimatedTime string `json:"estimated_time,omitempty"`
}

// AskFabricInput is the input schema for the ask_fabric tool.
type AskFabricInput struct {
	FabricID string `json:"fabric_id" jsonschema:"the fabric to ask; must be Ready"`
	Question string `json:"question" jsonschema:"the question to ask"`
	LLM      string `json:"llm,omitempty" jsonschema:"model identifier (optional)"`
}

// AskFabricOutput is the output schema for the ask_fabric tool.
type AskFabricOutput struct {
	Answer    string           `json:"answer"`
	MessageID string           `json:"message_id,omitempty"`
	Citations []CitationOutput `json:"citations,omitempty"`
}

// CitationOutput represents a single citation.
type CitationOutput struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
	Link    string `json:"link,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_fabrics",
		Description: "List all knowledge fabrics with their build status",
	}, s.handleListFabrics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fabric_status",
		Description: "Show one fabric's build status and counters",
	}, s.handleFabricStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "trigger_build",
		Description: "Start the asynchronous build pipeline for a fabric",
	}, s.handleTriggerBuild)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_fabric",
		Description: "Ask a question of a Ready knowledge fabric",
	}, s.handleAskFabric)
}

// handleListFabrics handles the list_fabrics tool invocation.
func (s *Server) handleListFabrics(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListFabricsInput,
) (*mcp.CallToolResult, ListFabricsOutput, error) {
	if err := s.ports.Registry.Reload(ctx); err != nil {
		return nil, ListFabricsOutput{}, err
	}

	fabrics := s.ports.Registry.Fabrics()
	output := ListFabricsOutput{
		Fabrics: make([]FabricSummary, len(fabrics)),
		Count:   len(fabrics),
	}
	for i := range fabrics {
		output.Fabrics[i] = summarise(&fabrics[i])
	}

	return nil, output, nil
}

// handleFabricStatus handles the fabric_status tool invocation.
func (s *Server) handleFabricStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FabricStatusInput,
) (*mcp.CallToolResult, FabricStatusOutput, error) {
	fabric, err := s.ports.Registry.Get(ctx, input.FabricID)
	if err != nil {
		return nil, FabricStatusOutput{}, err
	}

	return nil, FabricStatusOutput{
		FabricSummary: summarise(fabric),
		Building:      fabric.Status.IsBuilding(),
		Documents:     fabric.DocumentsCount,
		Chunks:        fabric.ChunksCount,
		GraphNodes:    fabric.GraphNodes,
		GraphEdges:    fabric.GraphEdges,
	}, nil
}

// handleTriggerBuild handles the trigger_build tool invocation.
func (s *Server) handleTriggerBuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TriggerBuildInput,
) (*mcp.CallToolResult, TriggerBuildOutput, error) {
	ack, err := s.ports.Registry.TriggerBuild(ctx, input.FabricID)
	if err != nil {
		return nil, TriggerBuildOutput{}, err
	}

	return nil, TriggerBuildOutput{
		Status:        ack.Status.String(),
		Message:       ack.Message,
		EstimatedTime: ack.EstimatedTime,
	}, nil
}

// handleAskFabric handles the ask_fabric tool invocation. Each call runs
// against a fresh conversation so tool calls stay independent.
func (s *Server) handleAskFabric(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskFabricInput,
) (*mcp.CallToolResult, AskFabricOutput, error) {
	if s.ports.Chat == nil {
		return nil, AskFabricOutput{}, errors.New("chat is not available")
	}

	if err := s.ports.Registry.Reload(ctx); err != nil {
		return nil, AskFabricOutput{}, err
	}
	if err := s.ports.Registry.Select(input.FabricID); err != nil {
		return nil, AskFabricOutput{}, err
	}
	if input.LLM != "" {
		s.ports.Chat.SetLLM(input.LLM)
	}

	s.ports.Chat.Reset()
	if err := s.ports.Chat.Send(ctx, input.Question); err != nil {
		return nil, AskFabricOutput{}, err
	}

	messages := s.ports.Chat.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != domain.RoleAssistant {
			continue
		}
		output := AskFabricOutput{
			Answer:    messages[i].Content,
			MessageID: messages[i].ID,
			Citations: make([]CitationOutput, len(messages[i].Sources)),
		}
		for j, c := range messages[i].Sources {
			output.Citations[j] = CitationOutput{
				ID:      c.ID,
				Title:   c.Title,
				Snippet: c.Snippet,
				Link:    c.Link,
			}
		}
		return nil, output, nil
	}

	return nil, AskFabricOutput{}, fmt.Errorf("no answer received for fabric %s", input.FabricID)
}

// summarise maps a fabric to its tool output form.
func summarise(fabric *domain.Fabric) FabricSummary {
	return FabricSummary{
		ID:     fabric.ID,
		Name:   fabric.Name,
		Domain: string(fabric.Domain),
		Status: fabric.Status.String(),
		Source: fabric.Sources.Primary(),
		Error:  fabric.Error,
	}
}
