package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var chatHistoryLimit int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Inspect or clear the chat history",
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Print past questions and answers",
	Args:  cobra.NoArgs,
	RunE:  runChatHistory,
}

var chatClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the chat history",
	Args:  cobra.NoArgs,
	RunE:  runChatClear,
}

func init() {
	chatHistoryCmd.Flags().IntVarP(&chatHistoryLimit, "limit", "n", 20, "Most recent messages to show (0 = all)")

	chatCmd.AddCommand(chatHistoryCmd)
	chatCmd.AddCommand(chatClearCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChatHistory(cmd *cobra.Command, _ []string) error {
	svc, err := requireChat()
	if err != nil {
		return err
	}

	msgs, err := svc.Recent(commandContext(cmd), chatHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load chat history: %w", err)
	}

	if len(msgs) == 0 {
		cmd.Println("No chat history.")
		return nil
	}

	for _, m := range msgs {
		who := "You"
		if m.Role == domain.ChatRoleAssistant {
			who = "Assistant"
		}
		cmd.Printf("[%s] %s\n", m.Timestamp.Local().Format("2006-01-02 15:04"), who)
		cmd.Println(m.Content)
		cmd.Println()
	}
	return nil
}

func runChatClear(cmd *cobra.Command, _ []string) error {
	svc, err := requireChat()
	if err != nil {
		return err
	}

	if err := svc.Clear(commandContext(cmd)); err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}

	cmd.Println("Chat history cleared.")
	return nil
}
