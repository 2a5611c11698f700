package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question     string   `json:"question" jsonschema:"the question to answer from the documents"`
	DocumentIDs  []string `json:"document_ids,omitempty" jsonschema:"IDs of the documents to search"`
	AllDocuments bool     `json:"all_documents,omitempty" jsonschema:"search every uploaded document"`
	TopK         int      `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve (at most 3)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer   string         `json:"answer"`
	Sources  []SourceOutput `json:"sources"`
	Fallback bool           `json:"fallback,omitempty"`
}

// SourceOutput is one citation.
type SourceOutput struct {
	File string `json:"file"`
	Page int    `json:"page,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes one uploaded document.
type DocumentOutput struct {
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
	FileSize   int64  `json:"file_size"`
	UploadedAt string `json:"uploaded_at"`
}

// IngestFileInput is the input schema for the ingest_file tool.
type IngestFileInput struct {
	Path string `json:"path" jsonschema:"local path of a .pdf or .txt file to upload"`
}

// IngestFileOutput is the output schema for the ingest_file tool.
type IngestFileOutput struct {
	Success       bool   `json:"success"`
	DocumentID    string `json:"document_id,omitempty"`
	FileName      string `json:"file_name"`
	ChunksCreated int    `json:"chunks_created"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the content of selected uploaded documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded documents and their IDs",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_file",
		Description: "Upload a local PDF or text file so it can be queried",
	}, s.handleIngestFile)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}

	ids := input.DocumentIDs
	if input.AllDocuments {
		docs, err := s.ports.Document.List(ctx)
		if err != nil {
			return nil, AskOutput{}, fmt.Errorf("listing documents: %w", err)
		}
		ids = make([]string, len(docs))
		for i, d := range docs {
			ids[i] = d.ID
		}
	}
	if len(ids) == 0 {
		return nil, AskOutput{}, errors.New("select documents with document_ids or set all_documents")
	}

	result, err := s.ports.Chat.Ask(ctx, input.Question, ids, input.TopK)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:   result.Answer,
		Sources:  make([]SourceOutput, len(result.Sources)),
		Fallback: result.Fallback,
	}
	for i, src := range result.Sources {
		output.Sources[i] = SourceOutput{File: src.File, Page: src.Page}
	}
	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i, d := range docs {
		output.Documents[i] = toDocumentOutput(d)
	}
	return nil, output, nil
}

// handleIngestFile handles the ingest_file tool invocation.
func (s *Server) handleIngestFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestFileInput,
) (*mcp.CallToolResult, IngestFileOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, IngestFileOutput{}, errors.New("path is required")
	}

	results := s.ports.Document.UploadBatch(ctx, []string{input.Path})
	if len(results) == 0 {
		return nil, IngestFileOutput{}, errors.New("no result for " + input.Path)
	}

	r := results[0]
	return nil, IngestFileOutput{
		Success:       r.Success,
		DocumentID:    r.DocumentID,
		FileName:      r.FileName,
		ChunksCreated: r.ChunksCreated,
		Message:       r.Message,
		Error:         r.Error,
	}, nil
}

func toDocumentOutput(d domain.Document) DocumentOutput {
	return DocumentOutput{
		DocumentID: d.ID,
		FileName:   d.FileName,
		FileSize:   d.FileSize,
		UploadedAt: d.UploadedAt.UTC().Format(time.RFC3339),
	}
}
