package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts containing "alpha" point along the first axis, everything else
// along the second, so tests can steer ranking by wording.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedErr   error
	batchErr   error
	shortBatch bool
	embedCalls int
	batchCalls int
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if strings.Contains(strings.ToLower(text), "alpha") {
		return []float32{1, 0.05}
	}
	return []float32{0.05, 1}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.embedCalls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	if m.shortBatch && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return 2
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu         sync.Mutex
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// recordingIndex wraps a driven.VectorIndex, recording searches and
// optionally failing writes.
type recordingIndex struct {
	driven.VectorIndex
	addErr      error
	searchErr   error
	searches    int
	lastK       int
	lastFilter  driven.VectorFilter
	deletes     int
	partialAdds bool
}

func (r *recordingIndex) Add(ctx context.Context, entries []driven.VectorEntry) error {
	if r.addErr != nil {
		if r.partialAdds && len(entries) > 0 {
			_ = r.VectorIndex.Add(ctx, entries[:1])
		}
		return r.addErr
	}
	return r.VectorIndex.Add(ctx, entries)
}

func (r *recordingIndex) Search(
	ctx context.Context, query []float32, k int, filter driven.VectorFilter,
) ([]domain.RetrievedChunk, error) {
	r.searches++
	r.lastK = k
	r.lastFilter = filter
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.VectorIndex.Search(ctx, query, k, filter)
}

func (r *recordingIndex) DeleteWhere(ctx context.Context, filter driven.VectorFilter) (int, error) {
	r.deletes++
	return r.VectorIndex.DeleteWhere(ctx, filter)
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockNormaliser implements driven.Normaliser for testing.
type mockNormaliser struct {
	doc *domain.ExtractedDocument
	err error
}

func (m *mockNormaliser) SupportedExtensions() []string {
	return []string{".txt", ".pdf"}
}

func (m *mockNormaliser) Normalise(_ context.Context, _, fileName string) (*domain.ExtractedDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc := *m.doc
	doc.FileName = fileName
	return &doc, nil
}

// mockNormaliserRegistry accepts .txt and .pdf.
type mockNormaliserRegistry struct {
	normaliser driven.Normaliser
}

func (m *mockNormaliserRegistry) For(fileName string) (driven.Normaliser, error) {
	if !m.Supports(fileName) {
		return nil, domain.ErrUnsupportedType
	}
	return m.normaliser, nil
}

func (m *mockNormaliserRegistry) Supports(fileName string) bool {
	ext := domain.FileExtension(fileName)
	return ext == ".txt" || ext == ".pdf"
}

func (m *mockNormaliserRegistry) Extensions() []string {
	return []string{".pdf", ".txt"}
}

// memoryFileStore implements driven.FileStore in memory.
type memoryFileStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	putErr  error
	removed []string
}

func newMemoryFileStore() *memoryFileStore {
	return &memoryFileStore{files: make(map[string][]byte)}
}

func (m *memoryFileStore) Put(_ context.Context, name string, r io.Reader) (string, int64, error) {
	if m.putErr != nil {
		return "", 0, m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "uploads/" + name
	m.files[path] = data
	return path, int64(len(data)), nil
}

func (m *memoryFileStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryFileStore) Remove(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	m.removed = append(m.removed, path)
	return nil
}
