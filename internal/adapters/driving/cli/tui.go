package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docqa.

Pick documents in the Documents view, then ask questions about them in
Chat. Answers cite the file and page of the chunks they came from.

Controls:
  ↑/k, ↓/j - Navigate
  space    - Toggle document
  tab      - Switch from chat to documents
  Enter    - Ask / Select
  Esc      - Back
  ctrl+c   - Quit`,
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

	ports := tui.NewPorts(chatService, documentService, settingsService)

	app, err := tui.NewApp(ports)
	if err != nil {
		if pipelineErr != nil {
			return fmt.Errorf("failed to create TUI: %w: %w", err, pipelineErr)
		}
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(commandContext(cmd)).WithTopK(appSettings.Retrieval.TopK)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
