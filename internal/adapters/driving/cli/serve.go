package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docqa/internal/logger"
)

var (
	serveAddr     string
	serveWatchDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API used by the web frontend.

Endpoints:
  POST   /upload                         Upload files (multipart "file"/"files")
  GET    /upload/documents               List documents
  DELETE /upload/documents/{id}          Delete a document
  GET    /upload/documents/{id}/file     Download the stored file
  POST   /chat                           Ask a question
  GET    /chat/history                   Chat history
  DELETE /chat/history                   Clear chat history
  GET    /debug/collection-stats         Vector collection statistics
  GET    /debug/retrieval-test           Retrieval without generation
  GET    /debug/document-chunks/{id}     Chunks of a document

With --watch, files dropped into the given directory are uploaded too.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from settings)")
	serveCmd.Flags().StringVar(&serveWatchDir, "watch", "", "Inbox directory to watch for uploads")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	docs, err := requireDocuments()
	if err != nil {
		return err
	}
	chat, err := requireChat()
	if err != nil {
		return err
	}
	dbg, err := requireDebug()
	if err != nil {
		return err
	}

	cfg := appSettings.Server
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var watchErr <-chan error
	if serveWatchDir != "" {
		w := newInboxWatcher(cmd, serveWatchDir, docs, true)
		defer w.Close()
		watchErr = runInBackground(ctx, w.Run)
	}

	server := httpapi.NewServer(cfg, httpapi.Services{
		Documents: docs,
		Chat:      chat,
		Debug:     dbg,
	})
	if err := server.Start(); err != nil {
		return err
	}
	cmd.Printf("docqa API listening on %s\n", server.Addr())

	select {
	case <-ctx.Done():
	case err, ok := <-watchErr:
		if ok && err != nil {
			logger.Error("%v", err)
		}
		<-ctx.Done()
	}

	cmd.Println("Shutting down...")
	return server.Stop()
}
