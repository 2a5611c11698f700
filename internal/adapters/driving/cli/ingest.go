package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Upload and index documents",
	Long: `Upload one or more files, extract their text, and index the chunks.

Every file is checked before any is stored: if one has an unsupported
extension the whole batch is rejected. Supported formats are PDF and
plain text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "Output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	svc, err := requireDocuments()
	if err != nil {
		return err
	}

	results := svc.UploadBatch(commandContext(cmd), args)

	if ingestJSON {
		if err := writeJSON(cmd, results); err != nil {
			return err
		}
	} else {
		printIngestResults(cmd, results)
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to ingest", failed, len(results))
	}
	return nil
}

func printIngestResults(cmd *cobra.Command, results []domain.IngestResult) {
	for _, r := range results {
		if r.Success {
			cmd.Printf("  ✓ %s: %d chunks (id %s)\n", r.FileName, r.ChunksCreated, r.DocumentID)
			continue
		}
		reason := r.Error
		if reason == "" {
			reason = r.Message
		}
		cmd.Printf("  ✗ %s: %s\n", r.FileName, reason)
	}
}
