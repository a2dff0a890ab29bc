package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driving"
	"github.com/serviceops-labs/fabric-studio/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired into the CLI commands. Set once from main before Execute.
var (
	registryService   driving.FabricRegistry
	chatSession       driving.ChatSession
	connectionService driving.ConnectionTester
	buildPoller       driving.BuildPoller
	configStore       driven.ConfigStore
	pollInterval      time.Duration
)

// verboseFlag enables debug logging on stderr.
var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "fabricctl",
	Short: "Manage knowledge fabrics from the terminal",
	Long: `fabricctl configures, builds and chats with knowledge fabrics.

A fabric is a named ingestion job over a data source (ServiceNow tables,
a SharePoint library, or uploaded documents) that the backend turns into
a chunked, vectorised, graph-linked knowledge base. Once a fabric is
Ready you can chat with it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Config carries the services the commands depend on.
type Config struct {
	Registry     driving.FabricRegistry
	Chat         driving.ChatSession
	Connections  driving.ConnectionTester
	Poller       driving.BuildPoller
	ConfigStore  driven.ConfigStore
	PollInterval time.Duration
}

// SetServices wires the service implementations into the command set.
func SetServices(cfg Config) {
	registryService = cfg.Registry
	chatSession = cfg.Chat
	connectionService = cfg.Connections
	buildPoller = cfg.Poller
	configStore = cfg.ConfigStore
	pollInterval = cfg.PollInterval
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
