package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid document URI",
			uri:      "docqa://documents/doc-456",
			expected: "doc-456",
		},
		{
			name:     "invalid prefix",
			uri:      "file://documents/doc-456",
			expected: "",
		},
		{
			name:     "list URI has no id",
			uri:      "docqa://documents",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document list", func(t *testing.T) {
		docs := &mockDocumentService{documents: []domain.Document{
			{ID: "a", FileName: "a.pdf"},
			{ID: "b", FileName: "b.txt"},
		}}
		server := newTestServer(t, &mockChatService{}, docs)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docqa://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var infos []DocumentOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 2)
		assert.Equal(t, "b.txt", infos[1].FileName)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("db locked")}
		server := newTestServer(t, &mockChatService{}, docs)

		_, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docqa://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentFileResource(t *testing.T) {
	ctx := context.Background()

	t.Run("text document returns text", func(t *testing.T) {
		docs := &mockDocumentService{
			documents: []domain.Document{{ID: "t1", FileName: "notes.txt"}},
			content:   "plain text body",
		}
		server := newTestServer(t, &mockChatService{}, docs)

		result, err := server.handleDocumentFileResource(ctx, makeReadResourceRequest("docqa://documents/t1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "plain text body", result.Contents[0].Text)
	})

	t.Run("pdf document returns blob", func(t *testing.T) {
		docs := &mockDocumentService{
			documents: []domain.Document{{ID: "p1", FileName: "report.pdf"}},
			content:   "%PDF-1.7",
		}
		server := newTestServer(t, &mockChatService{}, docs)

		result, err := server.handleDocumentFileResource(ctx, makeReadResourceRequest("docqa://documents/p1"))

		require.NoError(t, err)
		assert.Equal(t, "application/pdf", result.Contents[0].MIMEType)
		assert.Equal(t, []byte("%PDF-1.7"), result.Contents[0].Blob)
		assert.Empty(t, result.Contents[0].Text)
	})

	t.Run("unknown document is not found", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{}, &mockDocumentService{})

		_, err := server.handleDocumentFileResource(ctx, makeReadResourceRequest("docqa://documents/missing"))

		require.Error(t, err)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server := newTestServer(t, &mockChatService{}, &mockDocumentService{})

		_, err := server.handleDocumentFileResource(ctx, makeReadResourceRequest("docqa://other/x"))

		require.Error(t, err)
	})
}
