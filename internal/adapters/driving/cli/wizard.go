package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

var fabricWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive fabric creation wizard",
	Long:  `Walks through fabric creation step by step: name, domain, data source and chunking.`,
	RunE:  runFabricWizard,
}

func init() {
	fabricCmd.AddCommand(fabricWizardCmd)
}

func runFabricWizard(cmd *cobra.Command, _ []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	cmd.Println("Fabric Creation Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	// Step 1: Name and description
	cmd.Print("Fabric name: ")
	name := readLine(reader)
	if name == "" {
		return errors.New("fabric name is required")
	}
	cmd.Print("Description (optional): ")
	description := readLine(reader)

	// Step 2: Domain
	cmd.Println("\nStep 2: Subject Domain")
	cmd.Println("----------------------")
	domains := []domain.FabricDomain{
		domain.DomainIncidentManagement,
		domain.DomainProblemManagement,
		domain.DomainChangeManagement,
		domain.DomainOther,
	}
	for i, d := range domains {
		cmd.Printf("  %d. %s\n", i+1, d)
	}
	cmd.Print("\nEnter choice [1]: ")
	domainIdx := parseChoice(readLine(reader), len(domains), 1)
	selectedDomain := domains[domainIdx-1]

	// Step 3: Data source
	cmd.Println("\nStep 3: Data Source")
	cmd.Println("-------------------")
	cmd.Println("  1. ServiceNow tables")
	cmd.Println("  2. SharePoint library")
	cmd.Println("  3. Uploaded documents (add later with 'fabricctl upload')")
	cmd.Print("\nEnter choice [3]: ")
	sourceIdx := parseChoice(readLine(reader), 3, 3)

	var sources domain.SourceConfig
	switch sourceIdx {
	case 1:
		cmd.Print("ServiceNow instance URL: ")
		instanceURL := readLine(reader)
		if instanceURL == "" {
			return errors.New("instance URL is required")
		}
		cmd.Print("Tables (comma-separated) [incident,kb_knowledge]: ")
		tablesInput := readLine(reader)
		if tablesInput == "" {
			tablesInput = "incident,kb_knowledge"
		}
		sources.ServiceNow = &domain.ServiceNowSource{
			Enabled:     true,
			InstanceURL: instanceURL,
			Tables:      splitTables(tablesInput),
		}
	case 2:
		cmd.Print("SharePoint site URL: ")
		siteURL := readLine(reader)
		if siteURL == "" {
			return errors.New("site URL is required")
		}
		cmd.Print("Document library (optional): ")
		library := readLine(reader)
		sources.SharePoint = &domain.SharePointSource{
			Enabled: true,
			SiteURL: siteURL,
			Library: library,
		}
	}

	// Step 4: Chunking and embedding
	cmd.Println("\nStep 4: Chunking")
	cmd.Println("----------------")
	cmd.Print("Chunk size in tokens [800]: ")
	chunkSize := parseChoice(readLine(reader), 10000, 800)
	cmd.Print("Chunk overlap [80]: ")
	overlap := parseChoiceAllowZero(readLine(reader), chunkSize-1, 80)
	cmd.Print("Embedding model [text-embedding-3-small]: ")
	embedding := readLine(reader)
	if embedding == "" {
		embedding = "text-embedding-3-small"
	}
	cmd.Print("Vector collection name: ")
	collection := readLine(reader)
	if collection == "" {
		return errors.New("collection name is required")
	}

	fabric, err := registryService.Create(context.Background(), domain.FabricConfig{
		Name:             name,
		Description:      description,
		Domain:           selectedDomain,
		Sources:          sources,
		ChunkSize:        chunkSize,
		ChunkOverlap:     overlap,
		EmbeddingModel:   embedding,
		ChromaCollection: collection,
	})
	if err != nil {
		return fmt.Errorf("failed to create fabric: %w", err)
	}

	cmd.Println("\nFabric Created!")
	cmd.Println("===============")
	cmd.Printf("ID: %s\n", fabric.ID)
	if sourceIdx == 3 {
		cmd.Printf("Next: 'fabricctl upload %s <files...>' to add documents.\n", fabric.ID)
	} else {
		cmd.Printf("Next: 'fabricctl fabric build %s' to start the build.\n", fabric.ID)
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseChoiceAllowZero(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 0 || val > maxVal {
		return defaultVal
	}
	return val
}

func splitTables(input string) []string {
	parts := strings.Split(input, ",")
	tables := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}
