package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/logger"
)

var uploadWatchDir string

var uploadCmd = &cobra.Command{
	Use:   "upload [fabric-id] [files...]",
	Short: "Upload documents into a fabric",
	Long: `Uploads documents into a fabric's uploads source. Uploaded documents
are ingested on the next build.

With --watch, the given directory is watched and newly created files are
uploaded as they appear. Press Ctrl+C to stop watching.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadWatchDir, "watch", "", "watch a directory and upload new files")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	fabricID := args[0]
	paths := args[1:]

	if uploadWatchDir == "" && len(paths) == 0 {
		return errors.New("no files given; pass file paths or --watch a directory")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(paths) > 0 {
		if err := uploadPaths(ctx, cmd, fabricID, paths); err != nil {
			return err
		}
	}

	if uploadWatchDir != "" {
		return watchAndUpload(ctx, cmd, fabricID, uploadWatchDir)
	}
	return nil
}

func uploadPaths(ctx context.Context, cmd *cobra.Command, fabricID string, paths []string) error {
	files := make([]domain.UploadFile, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, domain.UploadFile{
			Name:    filepath.Base(p),
			Content: content,
		})
	}

	ack, err := registryService.Upload(ctx, fabricID, files)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Printf("Uploaded %d files to fabric %s:\n", len(ack.Files), fabricID)
	for _, name := range ack.Files {
		cmd.Printf("  %s\n", name)
	}
	return nil
}

// watchAndUpload uploads files as they are created in dir. Write events are
// debounced by uploading on Create only; partially written files are the
// writer's responsibility.
func watchAndUpload(ctx context.Context, cmd *cobra.Command, fabricID, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best-effort cleanup

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for new documents (Ctrl+C to stop)...\n", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil || info.IsDir() {
				continue
			}
			logger.Debug("watch event: %s", event.Name)
			if err := uploadPaths(ctx, cmd, fabricID, []string{event.Name}); err != nil {
				cmd.Printf("Upload of %s failed: %v\n", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.Printf("Watch error: %v\n", err)
		}
	}
}
