package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestChatHistoryCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	now := time.Now()
	ts.chat.history = []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "What grew?", Timestamp: now},
		{Role: domain.ChatRoleAssistant, Content: "Revenue grew.", Timestamp: now},
	}

	out, err := execute(t, "", "chat", "history", "-n", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, ts.chat.limit)
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "What grew?")
	assert.Contains(t, out, "Assistant")
	assert.Contains(t, out, "Revenue grew.")
}

func TestChatHistoryCmd_DefaultLimitAndEmpty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "chat", "history")

	require.NoError(t, err)
	assert.Equal(t, 20, ts.chat.limit)
	assert.Contains(t, out, "No chat history.")
}

func TestChatClearCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "chat", "clear")

	require.NoError(t, err)
	assert.True(t, ts.chat.cleared)
	assert.Contains(t, out, "Chat history cleared.")
}
