package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range documentCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"list", "get", "delete", "save"}, names)
}

func TestDocumentListCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "documents", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "Total: 2 documents")
}

func TestDocumentListCmd_Empty(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.docs.docs = nil

	out, err := execute(t, "", "docs", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents uploaded.")
}

func TestDocumentListCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "documents", "list", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"FileName": "report.pdf"`)
}

func TestDocumentGetCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "documents", "get", "d1")

	require.NoError(t, err)
	assert.Contains(t, out, "Document: d1")
	assert.Contains(t, out, "2048 bytes")
}

func TestDocumentGetCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "documents", "get", "missing")

	assert.Error(t, err)
}

func TestDocumentDeleteCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "documents", "delete", "d2")

	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, ts.docs.deleted)
	assert.Contains(t, out, "Deleted document d2")
}

func TestDocumentSaveCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	dest := filepath.Join(t.TempDir(), "copy.txt")

	out, err := execute(t, "", "documents", "save", "d2", "-o", dest)

	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello notes", string(data))
	assert.Contains(t, out, "(11 bytes)")
}
