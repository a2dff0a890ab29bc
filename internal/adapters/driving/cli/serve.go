package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driven/storage/memory"
	"github.com/serviceops-labs/fabric-studio/internal/adapters/driven/storage/sqlite"
	"github.com/serviceops-labs/fabric-studio/internal/server"
)

var (
	serveAddr       string
	serveStageDelay time.Duration
	serveInMemory   bool
	serveDataDir    string
	serveProd       bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fabric backend",
	Long: `Runs the fabric backend that fabricctl talks to. The build pipeline is
simulated: triggered builds advance through the stages on a timer and
chat answers are canned, but the HTTP contract, persistence and status
transitions are the real ones.

ServiceNow credentials are read from SERVICENOW_USERNAME and
SERVICENOW_PASSWORD; a .env file in the working directory is loaded
if present.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":4000", "listen address")
	serveCmd.Flags().DurationVar(&serveStageDelay, "stage-delay", server.DefaultStageDelay, "pause between simulated build stages")
	serveCmd.Flags().BoolVar(&serveInMemory, "memory", false, "use in-memory stores instead of SQLite")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "SQLite data directory (default ~/.fabricctl/data)")
	serveCmd.Flags().BoolVar(&serveProd, "prod", false, "production logging and Gin release mode")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load() //nolint:errcheck

	mode := "dev"
	if serveProd {
		mode = "prod"
	}
	log, err := server.NewLogger(mode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	cfg := server.Config{
		Addr:       serveAddr,
		Mode:       mode,
		StageDelay: serveStageDelay,
	}

	if serveInMemory {
		cfg.Fabrics = memory.NewFabricStore()
		cfg.Conversations = memory.NewConversationStore()
		cfg.Feedback = memory.NewFeedbackStore()
		log.Info("using in-memory stores")
	} else {
		store, err := sqlite.NewStore(serveDataDir)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer store.Close() //nolint:errcheck // Best-effort cleanup
		cfg.Fabrics = store.FabricStore()
		cfg.Conversations = store.ConversationStore()
		cfg.Feedback = store.FeedbackStore()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, log)
	return srv.Run(ctx)
}
