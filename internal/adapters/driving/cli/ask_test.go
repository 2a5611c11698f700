package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, err := execute(t, "", "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestAskCmd_WithDocFlags(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "ask", "-d", "d1", "--doc", "d2", "-k", "4", "What", "grew?")

	require.NoError(t, err)
	require.Len(t, ts.chat.calls, 1)
	assert.Equal(t, "What grew?", ts.chat.calls[0].question)
	assert.Equal(t, []string{"d1", "d2"}, ts.chat.calls[0].ids)
	assert.Equal(t, 4, ts.chat.calls[0].topK)
	assert.Contains(t, out, "Revenue grew.")
	assert.Contains(t, out, "**Sources:**")
}

func TestAskCmd_AllDocumentsUsesDefaultTopK(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "ask", "--all", "question")

	require.NoError(t, err)
	require.Len(t, ts.chat.calls, 1)
	assert.Equal(t, []string{"d1", "d2"}, ts.chat.calls[0].ids)
	assert.Equal(t, domain.DefaultTopK, ts.chat.calls[0].topK)
}

func TestAskCmd_NoSelection(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "ask", "question")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass --doc ID or --all")
}

func TestAskCmd_Fallback(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.chat.fallback = true

	out, err := execute(t, "", "ask", "-d", "d1", "question")

	require.NoError(t, err)
	assert.Contains(t, out, "did not respond in time")
}

func TestAskCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "ask", "--json", "-d", "d1", "question")

	require.NoError(t, err)
	var result domain.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, []domain.Source{{File: "report.pdf", Page: 2}}, result.Sources)
}
