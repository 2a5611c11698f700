package httpapi

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	mu        sync.Mutex
	documents []domain.Document
	uploaded  []string
	deleted   []string
	content   string
	chunks    int
	uploadErr error
	err       error
}

func (m *mockDocumentService) Upload(
	_ context.Context, fileName string, r io.Reader,
) (*domain.Document, domain.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.uploadErr != nil {
		return nil, domain.IngestResult{FileName: fileName, Error: m.uploadErr.Error()}, m.uploadErr
	}
	data, _ := io.ReadAll(r)
	m.uploaded = append(m.uploaded, fileName)
	doc := &domain.Document{ID: "doc-" + fileName, FileName: fileName, FileSize: int64(len(data))}
	return doc, domain.IngestResult{Success: true, DocumentID: doc.ID, FileName: fileName, ChunksCreated: m.chunks}, nil
}

func (m *mockDocumentService) UploadBatch(_ context.Context, _ []string) []domain.IngestResult {
	return nil
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

func (m *mockDocumentService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockDocumentService) SupportedExtensions() []string {
	return []string{".pdf", ".txt"}
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result   domain.QueryResult
	err      error
	messages []domain.ChatMessage
	cleared  bool
	asked    []string
	lastIDs  []string
	lastTopK int
}

func (m *mockChatService) Ask(
	_ context.Context, question string, documentIDs []string, topK int,
) (domain.QueryResult, error) {
	m.asked = append(m.asked, question)
	m.lastIDs = documentIDs
	m.lastTopK = topK
	return m.result, m.err
}

func (m *mockChatService) History(_ context.Context) ([]domain.ChatMessage, error) {
	return m.messages, m.err
}

func (m *mockChatService) Recent(_ context.Context, _ int) ([]domain.ChatMessage, error) {
	return m.messages, m.err
}

func (m *mockChatService) Clear(_ context.Context) error {
	m.cleared = true
	return m.err
}

// mockDebugService is a mock implementation of driving.DebugService.
type mockDebugService struct {
	stats    domain.CollectionStats
	chunks   []domain.RetrievedChunk
	err      error
	lastTopK int
	lastIDs  []string
}

func (m *mockDebugService) CollectionStats(_ context.Context) (domain.CollectionStats, error) {
	return m.stats, m.err
}

func (m *mockDebugService) RetrievalTest(
	_ context.Context, _ string, topK int, documentIDs []string,
) ([]domain.RetrievedChunk, error) {
	m.lastTopK = topK
	m.lastIDs = documentIDs
	return m.chunks, m.err
}

func (m *mockDebugService) DocumentChunks(_ context.Context, _ string) ([]domain.RetrievedChunk, error) {
	return m.chunks, m.err
}
