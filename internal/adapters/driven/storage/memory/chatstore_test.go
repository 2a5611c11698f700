package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestChatStore_AppendAndList(t *testing.T) {
	store := NewChatStore()
	ctx := context.Background()

	require.NoError(t, store.AppendMessage(ctx, domain.ChatMessage{Role: domain.ChatRoleUser, Content: "hi"}))
	require.NoError(t, store.AppendMessage(ctx, domain.ChatMessage{
		Role:    domain.ChatRoleAssistant,
		Content: "hello",
		Sources: []domain.Source{{File: "a.pdf", Page: 1}},
	}))

	msgs, err := store.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, domain.ChatRoleAssistant, msgs[1].Role)
	assert.Equal(t, []domain.Source{{File: "a.pdf", Page: 1}}, msgs[1].Sources)
}

func TestChatStore_ListReturnsCopy(t *testing.T) {
	store := NewChatStore()
	ctx := context.Background()
	require.NoError(t, store.AppendMessage(ctx, domain.ChatMessage{Content: "original"}))

	msgs, err := store.ListMessages(ctx)
	require.NoError(t, err)
	msgs[0].Content = "changed"

	again, err := store.ListMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestChatStore_Clear(t *testing.T) {
	store := NewChatStore()
	ctx := context.Background()
	require.NoError(t, store.AppendMessage(ctx, domain.ChatMessage{Content: "x"}))

	require.NoError(t, store.ClearMessages(ctx))

	msgs, err := store.ListMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
