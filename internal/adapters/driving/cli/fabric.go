package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

var (
	fabricJSON bool
	buildWatch bool

	createName        string
	createDescription string
	createDomain      string
	createChunkSize   int
	createOverlap     int
	createEmbedding   string
	createCollection  string
	createSNURL       string
	createSNTables    []string
	createSPURL       string
	createSPLibrary   string
)

var fabricCmd = &cobra.Command{
	Use:   "fabric",
	Short: "Manage knowledge fabrics",
	Long:  `Create, list, build, inspect, and delete knowledge fabrics.`,
}

var fabricListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all fabrics",
	RunE:  runFabricList,
}

var fabricStatusCmd = &cobra.Command{
	Use:   "status [fabric-id]",
	Short: "Show one fabric's build status",
	Args:  cobra.ExactArgs(1),
	RunE:  runFabricStatus,
}

var fabricCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a fabric",
	Long: `Creates a fabric in Draft status. A build must be triggered separately
with 'fabricctl fabric build'.

Exactly one data source should be configured: ServiceNow tables,
a SharePoint library, or documents uploaded later with 'fabricctl upload'.`,
	RunE: runFabricCreate,
}

var fabricBuildCmd = &cobra.Command{
	Use:   "build [fabric-id]",
	Short: "Trigger a fabric build",
	Long: `Triggers the asynchronous build pipeline for a fabric. The pipeline
runs Ingesting, Chunking, Vectorizing and GraphBuilding before the
fabric becomes Ready. Use --watch to follow progress until it settles.`,
	Args: cobra.ExactArgs(1),
	RunE: runFabricBuild,
}

var fabricDeleteCmd = &cobra.Command{
	Use:   "delete [fabric-id]",
	Short: "Delete a fabric",
	Args:  cobra.ExactArgs(1),
	RunE:  runFabricDelete,
}

func init() {
	fabricListCmd.Flags().BoolVar(&fabricJSON, "json", false, "output as JSON")
	fabricStatusCmd.Flags().BoolVar(&fabricJSON, "json", false, "output as JSON")
	fabricBuildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "poll status until the build settles")

	fabricCreateCmd.Flags().StringVar(&createName, "name", "", "fabric name (required)")
	fabricCreateCmd.Flags().StringVar(&createDescription, "description", "", "fabric description")
	fabricCreateCmd.Flags().StringVar(&createDomain, "domain", "", "subject domain (e.g. \"Incident Management\")")
	fabricCreateCmd.Flags().IntVar(&createChunkSize, "chunk-size", 800, "chunking window in tokens")
	fabricCreateCmd.Flags().IntVar(&createOverlap, "chunk-overlap", 80, "overlap between adjacent chunks")
	fabricCreateCmd.Flags().StringVar(&createEmbedding, "embedding-model", "text-embedding-3-small", "embedding model identifier")
	fabricCreateCmd.Flags().StringVar(&createCollection, "collection", "", "vector collection name (required)")
	fabricCreateCmd.Flags().StringVar(&createSNURL, "servicenow-url", "", "ServiceNow instance URL")
	fabricCreateCmd.Flags().StringSliceVar(&createSNTables, "servicenow-tables", nil, "ServiceNow tables to ingest")
	fabricCreateCmd.Flags().StringVar(&createSPURL, "sharepoint-url", "", "SharePoint site URL")
	fabricCreateCmd.Flags().StringVar(&createSPLibrary, "sharepoint-library", "", "SharePoint document library")

	fabricCmd.AddCommand(fabricListCmd)
	fabricCmd.AddCommand(fabricStatusCmd)
	fabricCmd.AddCommand(fabricCreateCmd)
	fabricCmd.AddCommand(fabricBuildCmd)
	fabricCmd.AddCommand(fabricDeleteCmd)
	rootCmd.AddCommand(fabricCmd)
}

func runFabricList(cmd *cobra.Command, _ []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	ctx := context.Background()
	if err := registryService.Reload(ctx); err != nil {
		return fmt.Errorf("failed to list fabrics: %w", err)
	}

	fabrics := registryService.Fabrics()
	if fabricJSON {
		return outputJSON(cmd, fabrics)
	}

	if len(fabrics) == 0 {
		cmd.Println("No fabrics found.")
		return nil
	}

	cmd.Println("Fabrics:")
	cmd.Println()
	for i := range fabrics {
		printFabricSummary(cmd, &fabrics[i])
	}
	cmd.Printf("Total: %d fabrics\n", len(fabrics))
	return nil
}

func runFabricStatus(cmd *cobra.Command, args []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	fabric, err := registryService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get fabric: %w", err)
	}

	if fabricJSON {
		return outputJSON(cmd, fabric)
	}

	printFabricDetail(cmd, fabric)
	return nil
}

func runFabricCreate(cmd *cobra.Command, _ []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	cfg := domain.FabricConfig{
		Name:             createName,
		Description:      createDescription,
		Domain:           domain.FabricDomain(createDomain),
		ChunkSize:        createChunkSize,
		ChunkOverlap:     createOverlap,
		EmbeddingModel:   createEmbedding,
		ChromaCollection: createCollection,
	}
	if createSNURL != "" {
		cfg.Sources.ServiceNow = &domain.ServiceNowSource{
			Enabled:     true,
			InstanceURL: createSNURL,
			Tables:      createSNTables,
		}
	}
	if createSPURL != "" {
		cfg.Sources.SharePoint = &domain.SharePointSource{
			Enabled: true,
			SiteURL: createSPURL,
			Library: createSPLibrary,
		}
	}

	fabric, err := registryService.Create(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create fabric: %w", err)
	}

	cmd.Printf("Fabric created: %s (%s)\n", fabric.Name, fabric.ID)
	cmd.Println("Run 'fabricctl fabric build' to start building it.")
	return nil
}

func runFabricBuild(cmd *cobra.Command, args []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	fabricID := args[0]
	ctx := context.Background()

	ack, err := registryService.TriggerBuild(ctx, fabricID)
	if err != nil {
		return fmt.Errorf("failed to trigger build: %w", err)
	}

	cmd.Printf("Build started for %s (status: %s)\n", fabricID, ack.Status)
	if ack.EstimatedTime != "" {
		cmd.Printf("Estimated time: %s\n", ack.EstimatedTime)
	}

	if !buildWatch {
		return nil
	}
	return watchBuild(ctx, cmd, fabricID)
}

// watchBuild polls the fabric until its status settles.
func watchBuild(ctx context.Context, cmd *cobra.Command, fabricID string) error {
	interval := pollInterval
	if interval <= 0 {
		interval = 2500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastStatus := domain.BuildStatus("")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fabric, err := registryService.Get(ctx, fabricID)
			if err != nil {
				return fmt.Errorf("failed to poll build status: %w", err)
			}
			if fabric.Status != lastStatus {
				cmd.Printf("  %s\n", fabric.Status)
				lastStatus = fabric.Status
			}
			if fabric.Status.IsTerminal() {
				if fabric.Status == domain.StatusError {
					return fmt.Errorf("build failed: %s", fabric.Error)
				}
				printFabricDetail(cmd, fabric)
				return nil
			}
		}
	}
}

func runFabricDelete(cmd *cobra.Command, args []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	fabricID := args[0]
	if err := registryService.Delete(context.Background(), fabricID); err != nil {
		return fmt.Errorf("failed to delete fabric: %w", err)
	}

	cmd.Printf("Fabric %s deleted.\n", fabricID)
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func printFabricSummary(cmd *cobra.Command, fabric *domain.Fabric) {
	cmd.Printf("  %s  [%s]\n", fabric.Name, fabric.Status)
	cmd.Printf("    ID: %s\n", fabric.ID)
	if fabric.Domain != "" {
		cmd.Printf("    Domain: %s\n", fabric.Domain)
	}
	if src := fabric.Sources.Primary(); src != "" {
		cmd.Printf("    Source: %s\n", src)
	}
	cmd.Println()
}

func printFabricDetail(cmd *cobra.Command, fabric *domain.Fabric) {
	cmd.Printf("Fabric: %s\n\n", fabric.ID)
	cmd.Printf("  Name:        %s\n", fabric.Name)
	if fabric.Description != "" {
		cmd.Printf("  Description: %s\n", fabric.Description)
	}
	cmd.Printf("  Domain:      %s\n", fabric.Domain)
	cmd.Printf("  Status:      %s\n", fabric.Status)
	if fabric.Error != "" {
		cmd.Printf("  Error:       %s\n", fabric.Error)
	}
	cmd.Printf("  Chunking:    %d tokens, %d overlap\n", fabric.ChunkSize, fabric.ChunkOverlap)
	cmd.Printf("  Embedding:   %s\n", fabric.EmbeddingModel)
	cmd.Printf("  Collection:  %s\n", fabric.ChromaCollection)

	if fabric.DocumentsCount != nil {
		cmd.Printf("  Documents:   %d\n", *fabric.DocumentsCount)
	}
	if fabric.ChunksCount != nil {
		cmd.Printf("  Chunks:      %d\n", *fabric.ChunksCount)
	}
	if fabric.GraphNodes != nil && fabric.GraphEdges != nil {
		cmd.Printf("  Graph:       %d nodes, %d edges\n", *fabric.GraphNodes, *fabric.GraphEdges)
	}
	cmd.Printf("  Created:     %s\n", fabric.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:     %s\n", fabric.UpdatedAt.Format("2006-01-02 15:04:05"))
}
