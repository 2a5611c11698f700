package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	debugTopK   int
	debugDocIDs []string
	debugJSON   bool
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Inspect the vector index",
}

var debugStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector collection statistics",
	Args:  cobra.NoArgs,
	RunE:  runDebugStats,
}

var debugRetrieveCmd = &cobra.Command{
	Use:   "retrieve [question]",
	Short: "Show the chunks a question retrieves",
	Long: `Run retrieval only, without generating an answer.
Without --doc every document is searched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDebugRetrieve,
}

var debugChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "List the indexed chunks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebugChunks,
}

func init() {
	debugRetrieveCmd.Flags().IntVarP(&debugTopK, "top-k", "k", 5, "Chunks to retrieve")
	debugRetrieveCmd.Flags().StringSliceVarP(&debugDocIDs, "doc", "d", nil, "Restrict to document ID (repeatable)")
	debugCmd.PersistentFlags().BoolVar(&debugJSON, "json", false, "Output as JSON")

	debugCmd.AddCommand(debugStatsCmd)
	debugCmd.AddCommand(debugRetrieveCmd)
	debugCmd.AddCommand(debugChunksCmd)
	rootCmd.AddCommand(debugCmd)
}

func runDebugStats(cmd *cobra.Command, _ []string) error {
	svc, err := requireDebug()
	if err != nil {
		return err
	}

	stats, err := svc.CollectionStats(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to read collection stats: %w", err)
	}

	if debugJSON {
		return writeJSON(cmd, stats)
	}

	cmd.Printf("Backend:    %s\n", stats.Backend)
	cmd.Printf("Collection: %s\n", stats.Collection)
	cmd.Printf("Chunks:     %d\n", stats.Count)
	return nil
}

func runDebugRetrieve(cmd *cobra.Command, args []string) error {
	svc, err := requireDebug()
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	chunks, err := svc.RetrievalTest(commandContext(cmd), question, debugTopK, debugDocIDs)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if debugJSON {
		return writeJSON(cmd, chunks)
	}
	printChunks(cmd, chunks)
	return nil
}

func runDebugChunks(cmd *cobra.Command, args []string) error {
	svc, err := requireDebug()
	if err != nil {
		return err
	}

	chunks, err := svc.DocumentChunks(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	if debugJSON {
		return writeJSON(cmd, chunks)
	}
	printChunks(cmd, chunks)
	return nil
}

func printChunks(cmd *cobra.Command, chunks []domain.RetrievedChunk) {
	if len(chunks) == 0 {
		cmd.Println("No chunks found.")
		return
	}
	for i, c := range chunks {
		cmd.Printf("%d. %s  %s p.%s  score=%.4f\n",
			i+1, c.ID, c.Metadata.DisplayFileName(), c.Metadata.DisplayPage(), c.Score())
		cmd.Printf("   %s\n\n", truncate(strings.Join(strings.Fields(c.Text), " "), 200))
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
