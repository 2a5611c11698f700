package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	askDocIDs []string
	askAll    bool
	askTopK   int
	askJSON   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about selected documents",
	Long: `Answer a question from the most relevant chunks of the selected documents.

Select documents with --doc (repeatable) or use --all. The question and
answer are added to the chat history.

Examples:
  docqa ask --doc 3f2a... "What were Q3 revenues?"
  docqa ask --all -k 5 "Summarise the warranty terms"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVarP(&askDocIDs, "doc", "d", nil, "Document ID to search (repeatable)")
	askCmd.Flags().BoolVar(&askAll, "all", false, "Search all uploaded documents")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "Chunks to retrieve (default from settings)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	chat, err := requireChat()
	if err != nil {
		return err
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	ctx := commandContext(cmd)
	ids := askDocIDs
	if askAll {
		docs, err := requireDocuments()
		if err != nil {
			return err
		}
		all, err := docs.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		ids = make([]string, 0, len(all))
		for _, d := range all {
			ids = append(ids, d.ID)
		}
	}

	topK := askTopK
	if topK <= 0 {
		topK = appSettings.Retrieval.TopK
	}

	result, err := chat.Ask(ctx, question, ids, topK)

	if askJSON {
		if encErr := writeJSON(cmd, result); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		if errors.Is(err, domain.ErrNoDocumentsSelected) {
			return errors.New("no documents selected: pass --doc ID or --all")
		}
		return fmt.Errorf("failed to answer: %w", err)
	}

	cmd.Println(result.Answer)
	if result.Fallback {
		cmd.Println()
		cmd.Println("(The model did not respond in time; showing retrieved text.)")
	}
	return nil
}
