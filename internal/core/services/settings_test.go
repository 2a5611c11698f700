package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// newTestSettingsService returns a service that sees only the given environment.
func newTestSettingsService(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil)
	svc.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, domain.DefaultRemoteLLMURL, settings.LLM.BaseURL)
	assert.Equal(t, domain.DefaultLLMTimeout, settings.LLM.Timeout)
	assert.Equal(t, defaults.Chunker, settings.Chunker)
	assert.Equal(t, domain.VectorBackendSQLite, settings.VectorIndex.Backend)
	assert.NotEmpty(t, settings.Storage.DataDir)
	assert.NotEmpty(t, settings.Embedding.ModelDir)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("llm.timeout", "90s")
	_ = store.Set("chunker.chunk_size", 500)
	_ = store.Set("chunker.overlap", 0)
	_ = store.Set("server.chat_rate", 0.5)
	_ = store.Set("storage.data_dir", "/var/lib/docqa")

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, 90*time.Second, settings.LLM.Timeout)
	assert.Equal(t, 500, settings.Chunker.ChunkSize)
	assert.Equal(t, 0, settings.Chunker.Overlap)
	assert.InDelta(t, 0.5, settings.Server.ChatRatePerSecond, 1e-9)
	assert.Equal(t, "/var/lib/docqa", settings.Storage.DataDir)
	assert.Equal(t, "/var/lib/docqa/models", settings.Embedding.ModelDir)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("vector_index.backend", "faiss")
	_ = store.Set("llm.timeout", "soon")

	settings, err := svc.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.VectorIndex.Backend, settings.VectorIndex.Backend)
	assert.Equal(t, defaults.LLM.Timeout, settings.LLM.Timeout)
}

func TestSettingsService_Get_EnvironmentOverrides(t *testing.T) {
	svc, store := newTestSettingsService(map[string]string{
		EnvLLMAPIURL:         "http://gpu-box:9000/chat",
		EnvEmbeddingProvider: "openai",
		EnvOpenAIAPIKey:      "sk-env",
		EnvDataDir:           "/data",
		EnvDatabaseURL:       "postgres://localhost/docqa",
	})
	_ = store.Set("llm.base_url", "http://from-file/chat")

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:9000/chat", settings.LLM.BaseURL)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	assert.Equal(t, "/data", settings.Storage.DataDir)
	assert.Equal(t, domain.VectorBackendPostgres, settings.VectorIndex.Backend)
	assert.Equal(t, "postgres://localhost/docqa", settings.VectorIndex.DatabaseURL)
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	svc, store := newTestSettingsService(nil)

	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-test-key",
	}
	settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderAnthropic,
		Model:    "claude-3-5-sonnet-latest",
		APIKey:   "sk-ant-test",
		Timeout:  30 * time.Second,
	}
	settings.Chunker = domain.ChunkerSettings{ChunkSize: 400, Overlap: 50}

	require.NoError(t, svc.Save(&settings))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.Embedding.Provider, got.Embedding.Provider)
	assert.Equal(t, "sk-test-key", got.Embedding.APIKey)
	assert.Equal(t, domain.AIProviderAnthropic, got.LLM.Provider)
	assert.Equal(t, 30*time.Second, got.LLM.Timeout)
	assert.Equal(t, settings.Chunker, got.Chunker)
	assert.Equal(t, "30s", store.GetString("llm.timeout"))

	_, exists := store.Get("vector_index.database_url")
	assert.False(t, exists)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	require.NoError(t, svc.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "all-minilm", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
}

func TestSettingsService_SetEmbeddingProvider_Errors(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	require.ErrorIs(t, svc.SetEmbeddingProvider("bogus", "", ""), domain.ErrInvalidInput)
	require.ErrorIs(t, svc.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "key"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetEmbeddingProvider(domain.AIProviderOpenAI, "", ""), domain.ErrInvalidInput)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider domain.AIProvider
		baseURL  string
		apiKey   string
		wantURL  string
	}{
		{"remote default url", domain.AIProviderRemote, "", "", domain.DefaultRemoteLLMURL},
		{"remote custom url", domain.AIProviderRemote, "http://h:1/chat", "", "http://h:1/chat"},
		{"ollama", domain.AIProviderOllama, "", "", "http://localhost:11434"},
		{"openai", domain.AIProviderOpenAI, "", "sk", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestSettingsService(nil)

			require.NoError(t, svc.SetLLMProvider(tt.provider, "", tt.baseURL, tt.apiKey))

			settings, err := svc.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.LLM.Provider)
			assert.Equal(t, tt.wantURL, settings.LLM.BaseURL)
		})
	}
}

func TestSettingsService_SetLLMProvider_RejectsLocal(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	assert.ErrorIs(t, svc.SetLLMProvider(domain.AIProviderLocal, "", "", ""), domain.ErrInvalidInput)
}

func TestSettingsService_SetChunker(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	require.NoError(t, svc.SetChunker(1000, 200))
	settings, _ := svc.Get()
	assert.Equal(t, domain.ChunkerSettings{ChunkSize: 1000, Overlap: 200}, settings.Chunker)

	require.ErrorIs(t, svc.SetChunker(100, 100), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetChunker(0, 0), domain.ErrInvalidInput)
}

func TestSettingsService_Validate(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	require.NoError(t, svc.Validate())

	_ = store.Set("vector_index.backend", "postgres")
	require.ErrorIs(t, svc.Validate(), domain.ErrInvalidInput)

	_ = store.Set("vector_index.database_url", "postgres://x")
	require.NoError(t, svc.Validate())

	_ = store.Set("llm.provider", "openai")
	assert.ErrorIs(t, svc.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_ValidateConfig_NoValidator(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	assert.NoError(t, svc.ValidateEmbeddingConfig())
	assert.NoError(t, svc.ValidateLLMConfig())
}
