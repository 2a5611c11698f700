package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

var (
	_ driving.DocumentService = (*mockDocumentService)(nil)
	_ driving.ChatService     = (*mockChatService)(nil)
	_ driving.DebugService    = (*mockDebugService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

type mockDocumentService struct {
	docs      []domain.Document
	content   map[string]string
	deleted   []string
	uploaded  [][]string
	uploadErr string
}

func (m *mockDocumentService) Upload(
	_ context.Context, name string, _ io.Reader,
) (*domain.Document, domain.IngestResult, error) {
	doc := &domain.Document{ID: "new-" + name, FileName: name}
	return doc, domain.IngestResult{Success: true, DocumentID: doc.ID, FileName: name, ChunksCreated: 1}, nil
}

func (m *mockDocumentService) UploadBatch(_ context.Context, paths []string) []domain.IngestResult {
	m.uploaded = append(m.uploaded, paths)
	results := make([]domain.IngestResult, 0, len(paths))
	for i, p := range paths {
		if m.uploadErr != "" && strings.HasSuffix(p, ".exe") {
			results = append(results, domain.IngestResult{FileName: p, Error: m.uploadErr})
			continue
		}
		results = append(results, domain.IngestResult{
			Success:       true,
			DocumentID:    "doc-" + string(rune('a'+i)),
			FileName:      p,
			ChunksCreated: 3,
		})
	}
	return results
}

func (m *mockDocumentService) List(context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
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
	return io.NopCloser(bytes.NewBufferString(m.content[id])), doc, nil
}

func (m *mockDocumentService) Delete(ctx context.Context, id string) error {
	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockDocumentService) SupportedExtensions() []string {
	return []string{".pdf", ".txt"}
}

type askCall struct {
	question string
	ids      []string
	topK     int
}

type mockChatService struct {
	calls    []askCall
	history  []domain.ChatMessage
	cleared  bool
	limit    int
	answer   string
	fallback bool
}

func (m *mockChatService) Ask(
	_ context.Context, question string, ids []string, topK int,
) (domain.QueryResult, error) {
	m.calls = append(m.calls, askCall{question: question, ids: ids, topK: topK})
	if len(ids) == 0 {
		return domain.QueryResult{Error: "no documents selected"}, domain.ErrNoDocumentsSelected
	}
	return domain.QueryResult{
		Success:  true,
		Answer:   m.answer,
		Sources:  []domain.Source{{File: "report.pdf", Page: 2}},
		Fallback: m.fallback,
	}, nil
}

func (m *mockChatService) History(ctx context.Context) ([]domain.ChatMessage, error) {
	return m.Recent(ctx, 0)
}

func (m *mockChatService) Recent(_ context.Context, limit int) ([]domain.ChatMessage, error) {
	m.limit = limit
	return m.history, nil
}

func (m *mockChatService) Clear(context.Context) error {
	m.cleared = true
	return nil
}

type mockDebugService struct {
	gotTopK int
	gotIDs  []string
}

func (m *mockDebugService) CollectionStats(context.Context) (domain.CollectionStats, error) {
	return domain.CollectionStats{Backend: "sqlite", Collection: "documents", Count: 42}, nil
}

func (m *mockDebugService) RetrievalTest(
	_ context.Context, _ string, topK int, ids []string,
) ([]domain.RetrievedChunk, error) {
	m.gotTopK, m.gotIDs = topK, ids
	return []domain.RetrievedChunk{{
		ID:       "d1_0",
		Text:     "Revenue   grew\n in Q3.",
		Metadata: domain.ChunkMetadata{DocumentID: "d1", FileName: "report.pdf", PageNumber: 2},
		Distance: 0.25,
	}}, nil
}

func (m *mockDebugService) DocumentChunks(_ context.Context, id string) ([]domain.RetrievedChunk, error) {
	if id != "d1" {
		return nil, nil
	}
	return []domain.RetrievedChunk{{ID: "d1_0", Text: "first", Metadata: domain.ChunkMetadata{FileName: "report.pdf"}}}, nil
}

type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	llmPingErr  error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding = domain.EmbeddingSettings{Provider: p, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, baseURL, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: p, Model: model, BaseURL: baseURL, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetChunker(size, overlap int) error {
	params := domain.ChunkerSettings{ChunkSize: size, Overlap: overlap}
	if err := params.Validate(); err != nil {
		return err
	}
	m.settings.Chunker = params
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.llmPingErr
}

type testServices struct {
	docs     *mockDocumentService
	chat     *mockChatService
	debug    *mockDebugService
	settings *mockSettingsService
}

// setupTestServices wires mocks into the package-level services and returns
// a cleanup func that restores the previous wiring.
func setupTestServices() (*testServices, func()) {
	uploaded := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	ts := &testServices{
		docs: &mockDocumentService{
			docs: []domain.Document{
				{ID: "d1", FileName: "report.pdf", FileSize: 2048, FilePath: "/data/uploads/d1.pdf", UploadedAt: uploaded},
				{ID: "d2", FileName: "notes.txt", FileSize: 12, FilePath: "/data/uploads/d2.txt", UploadedAt: uploaded},
			},
			content: map[string]string{"d2": "hello notes"},
		},
		chat:     &mockChatService{answer: "Revenue grew.\n\n**Sources:**\n1. report.pdf (page 2)"},
		debug:    &mockDebugService{},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}

	prev := Services{
		Documents:   documentService,
		Chat:        chatService,
		Debug:       debugService,
		Settings:    settingsService,
		AppSettings: appSettings,
		PipelineErr: pipelineErr,
	}

	SetServices(Services{
		Documents:   ts.docs,
		Chat:        ts.chat,
		Debug:       ts.debug,
		Settings:    ts.settings,
		AppSettings: domain.DefaultAppSettings(),
	})

	return ts, func() {
		SetServices(prev)
	}
}
