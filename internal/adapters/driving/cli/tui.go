package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/serviceops-labs/fabric-studio/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for fabricctl.

The TUI shows your fabrics with live build status and lets you trigger
builds, delete fabrics and chat with a Ready fabric, all with keyboard
navigation.

Controls:
  ↑/k, ↓/j - Navigate fabrics
  Enter    - Chat with fabric
  b        - Trigger build
  d        - Delete fabric
  r        - Refresh
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// The TUI is long-running, so keep the background poller alive for
	// the duration to pick up build completions.
	if buildPoller != nil {
		pollerCtx, pollerCancel := context.WithCancel(context.Background())
		defer pollerCancel()

		go func() {
			if err := buildPoller.Start(pollerCtx); err != nil {
				// Log but don't fail, poller errors shouldn't block the TUI
				fmt.Fprintf(os.Stderr, "poller stopped: %v\n", err)
			}
		}()

		defer func() {
			if err := buildPoller.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "poller stop error: %v\n", err)
			}
		}()
	}

	ports := tui.NewPorts(registryService, chatSession)
	ports.Connections = connectionService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context()).WithPollInterval(pollInterval)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
