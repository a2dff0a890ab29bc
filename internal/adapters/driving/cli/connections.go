package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
)

var (
	connSNURL    string
	connSNTables []string
	connSPURL    string
	connSPLib    string
)

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Test connector reachability",
	Long:  `Probes upstream connectors through the backend before committing to a fabric configuration.`,
}

var connectionsServiceNowCmd = &cobra.Command{
	Use:   "servicenow",
	Short: "Test a ServiceNow connection",
	RunE:  runConnectionsServiceNow,
}

var connectionsSharePointCmd = &cobra.Command{
	Use:   "sharepoint",
	Short: "Test a SharePoint connection",
	RunE:  runConnectionsSharePoint,
}

var connectionsCredentialsCmd = &cobra.Command{
	Use:   "check-credentials",
	Short: "Check backend ServiceNow credentials",
	RunE:  runConnectionsCredentials,
}

func init() {
	connectionsServiceNowCmd.Flags().StringVar(&connSNURL, "url", "", "ServiceNow instance URL (required)")
	connectionsServiceNowCmd.Flags().StringSliceVar(&connSNTables, "tables", nil, "tables to check (required)")
	connectionsSharePointCmd.Flags().StringVar(&connSPURL, "url", "", "SharePoint site URL (required)")
	connectionsSharePointCmd.Flags().StringVar(&connSPLib, "library", "", "document library")

	connectionsCmd.AddCommand(connectionsServiceNowCmd)
	connectionsCmd.AddCommand(connectionsSharePointCmd)
	connectionsCmd.AddCommand(connectionsCredentialsCmd)
	rootCmd.AddCommand(connectionsCmd)
}

func runConnectionsServiceNow(cmd *cobra.Command, _ []string) error {
	if connectionService == nil {
		return errors.New("connection service not configured")
	}

	result, err := connectionService.TestServiceNow(context.Background(), domain.ServiceNowSource{
		Enabled:     true,
		InstanceURL: connSNURL,
		Tables:      connSNTables,
	})
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	printConnectionResult(cmd, result)
	return nil
}

func runConnectionsSharePoint(cmd *cobra.Command, _ []string) error {
	if connectionService == nil {
		return errors.New("connection service not configured")
	}

	result, err := connectionService.TestSharePoint(context.Background(), domain.SharePointSource{
		Enabled: true,
		SiteURL: connSPURL,
		Library: connSPLib,
	})
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	printConnectionResult(cmd, result)
	return nil
}

func runConnectionsCredentials(cmd *cobra.Command, _ []string) error {
	if connectionService == nil {
		return errors.New("connection service not configured")
	}

	status, err := connectionService.CheckServiceNowCredentials(context.Background())
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}

	if status.Configured {
		cmd.Println("ServiceNow credentials are configured on the backend.")
	} else {
		cmd.Println("ServiceNow credentials are NOT configured.")
		if status.Message != "" {
			cmd.Printf("  %s\n", status.Message)
		}
		cmd.Println("Set SERVICENOW_USERNAME and SERVICENOW_PASSWORD in the backend environment.")
	}
	return nil
}

func printConnectionResult(cmd *cobra.Command, result *domain.ConnectionResult) {
	if result.Success {
		cmd.Printf("OK: %s\n", result.Message)
	} else {
		cmd.Printf("FAILED: %s\n", result.Message)
	}
}
