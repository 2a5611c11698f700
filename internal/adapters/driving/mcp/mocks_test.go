package mcp

import (
	"context"
	"io"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result  domain.QueryResult
	err     error
	lastIDs []string
	asked   int
}

func (m *mockChatService) Ask(
	_ context.Context, _ string, documentIDs []string, _ int,
) (domain.QueryResult, error) {
	m.asked++
	m.lastIDs = documentIDs
	return m.result, m.err
}

func (m *mockChatService) History(_ context.Context) ([]domain.ChatMessage, error) {
	return nil, m.err
}

func (m *mockChatService) Recent(_ context.Context, _ int) ([]domain.ChatMessage, error) {
	return nil, m.err
}

func (m *mockChatService) Clear(_ context.Context) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	content   string
	results   []domain.IngestResult
	paths     []string
	err       error
}

func (m *mockDocumentService) Upload(
	_ context.Context, _ string, _ io.Reader,
) (*domain.Document, domain.IngestResult, error) {
	return nil, domain.IngestResult{}, m.err
}

func (m *mockDocumentService) UploadBatch(_ context.Context, paths []string) []domain.IngestResult {
	m.paths = append(m.paths, paths...)
	return m.results
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, d := range m.documents {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := m.Get(ctx, id)
	return err == nil, nil
}

func (m *mockDocumentService) Open(ctx context.Context, id string) (io.ReadCloser, *domain.Document, error) {
	doc, err := m.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return io.NopCloser(strings.NewReader(m.content)), doc, nil
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) SupportedExtensions() []string {
	return []string{".pdf", ".txt"}
}
