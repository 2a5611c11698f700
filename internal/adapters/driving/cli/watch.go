package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

var watchSkipExisting bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload files dropped into a directory",
	Long: `Watch an inbox directory and upload every supported file that appears
in it. Files already present are uploaded at start unless --skip-existing
is set. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchSkipExisting, "skip-existing", false, "Ignore files already in the directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := requireDocuments()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := newInboxWatcher(cmd, args[0], svc, !watchSkipExisting)
	defer w.Close()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Dir())
	return w.Run(ctx)
}

// newInboxWatcher builds a watcher that reports each upload on the command output.
func newInboxWatcher(cmd *cobra.Command, dir string, svc driving.DocumentService, scan bool) *filesystem.Watcher {
	return filesystem.New(dir, svc,
		filesystem.WithExtensions(svc.SupportedExtensions()...),
		filesystem.WithScanExisting(scan),
		filesystem.WithResultHandler(func(r filesystem.Result) {
			if r.Err != nil {
				cmd.PrintErrf("  ✗ %s: %v\n", r.Path, r.Err)
				return
			}
			cmd.Printf("  ✓ %s: %d chunks (id %s)\n", r.Ingest.FileName, r.Ingest.ChunksCreated, r.Ingest.DocumentID)
		}),
	)
}

// runInBackground starts fn and returns a channel that yields its error.
func runInBackground(ctx context.Context, fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		if err := fn(ctx); err != nil {
			done <- fmt.Errorf("inbox watcher: %w", err)
		}
	}()
	return done
}
