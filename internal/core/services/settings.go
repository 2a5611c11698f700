package services

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedModelDir    = "embedding.model_dir"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTimeout       = "llm.timeout"
	keyVectorBackend    = "vector_index.backend"
	keyVectorDBURL      = "vector_index.database_url"
	keyVectorCollection = "vector_index.collection"
	keyChunkSize        = "chunker.chunk_size"
	keyChunkOverlap     = "chunker.overlap"
	keyRetrievalTopK    = "retrieval.top_k"
	keyDataDir          = "storage.data_dir"
	keyMetadataFormat   = "storage.metadata_format"
	keyServerAddr       = "server.addr"
	keyServerOrigins    = "server.allowed_origins"
	keyServerChatRate   = "server.chat_rate"
	keyServerChatBurst  = "server.chat_burst"
	keyServerMaxUpload  = "server.max_upload_bytes"
)

// Environment variables that override file configuration.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvLLMAPIURL         = "LLM_API_URL"
	EnvLLMProvider       = "DOCQA_LLM_PROVIDER"
	EnvEmbeddingProvider = "DOCQA_EMBEDDING_PROVIDER"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvDataDir           = "DOCQA_DATA_DIR"
	EnvDatabaseURL       = "DOCQA_DATABASE_URL"
)

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings: defaults, then the config
// file, then environment overrides.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.fromStore()
	s.applyEnv(settings)
	if settings.Storage.DataDir == "" {
		settings.Storage.DataDir = DefaultDataDir()
	}
	if settings.Embedding.ModelDir == "" {
		settings.Embedding.ModelDir = filepath.Join(settings.Storage.DataDir, "models")
	}
	return settings, nil
}

func (s *SettingsService) fromStore() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
			ModelDir: s.configStore.GetString(keyEmbedModelDir),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.getStringIfSet(keyLLMBaseURL, defaults.LLM.BaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getDuration(keyLLMTimeout, defaults.LLM.Timeout),
		},
		VectorIndex: domain.VectorIndexSettings{
			Backend:     s.getBackend(defaults.VectorIndex.Backend),
			DatabaseURL: s.configStore.GetString(keyVectorDBURL),
			Collection:  s.getString(keyVectorCollection, defaults.VectorIndex.Collection),
		},
		Chunker: domain.ChunkerSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunker.ChunkSize),
			Overlap:   s.getIntAllowZero(keyChunkOverlap, defaults.Chunker.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
		},
		Storage: domain.StorageSettings{
			DataDir:        s.configStore.GetString(keyDataDir),
			MetadataFormat: s.getMetadataFormat(defaults.Storage.MetadataFormat),
		},
		Server: domain.ServerSettings{
			Addr:              s.getString(keyServerAddr, defaults.Server.Addr),
			AllowedOrigins:    s.getStringSlice(keyServerOrigins, defaults.Server.AllowedOrigins),
			ChatRatePerSecond: s.getFloat(keyServerChatRate, defaults.Server.ChatRatePerSecond),
			ChatBurst:         s.getInt(keyServerChatBurst, defaults.Server.ChatBurst),
			MaxUploadBytes:    int64(s.getInt(keyServerMaxUpload, int(defaults.Server.MaxUploadBytes))),
		},
	}
}

// applyEnv overlays environment variables on loaded settings.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if v, ok := s.env(EnvLLMProvider); ok {
		if p := domain.AIProvider(v); p.IsValid() {
			settings.LLM.Provider = p
		}
	}
	if v, ok := s.env(EnvLLMAPIURL); ok && settings.LLM.Provider == domain.AIProviderRemote {
		settings.LLM.BaseURL = v
	}
	if v, ok := s.env(EnvEmbeddingProvider); ok {
		if p := domain.AIProvider(v); p.IsValid() {
			settings.Embedding.Provider = p
		}
	}
	if v, ok := s.env(EnvOpenAIAPIKey); ok {
		if settings.Embedding.Provider == domain.AIProviderOpenAI && settings.Embedding.APIKey == "" {
			settings.Embedding.APIKey = v
		}
		if settings.LLM.Provider == domain.AIProviderOpenAI && settings.LLM.APIKey == "" {
			settings.LLM.APIKey = v
		}
	}
	if v, ok := s.env(EnvDataDir); ok {
		settings.Storage.DataDir = v
	}
	if v, ok := s.env(EnvDatabaseURL); ok {
		settings.VectorIndex.DatabaseURL = v
		settings.VectorIndex.Backend = domain.VectorBackendPostgres
	}
}

func (s *SettingsService) env(key string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, settings.LLM.Timeout.String()},
		{keyVectorBackend, string(settings.VectorIndex.Backend)},
		{keyVectorCollection, settings.VectorIndex.Collection},
		{keyChunkSize, settings.Chunker.ChunkSize},
		{keyChunkOverlap, settings.Chunker.Overlap},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyMetadataFormat, string(settings.Storage.MetadataFormat)},
		{keyServerAddr, settings.Server.Addr},
		{keyServerOrigins, settings.Server.AllowedOrigins},
		{keyServerChatRate, settings.Server.ChatRatePerSecond},
		{keyServerChatBurst, settings.Server.ChatBurst},
		{keyServerMaxUpload, settings.Server.MaxUploadBytes},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Secrets and locations are only written when set, so environment
	// overrides are not copied into the file.
	optional := []struct {
		key   string
		value string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey},
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyVectorDBURL, settings.VectorIndex.DatabaseURL},
	}
	for _, v := range optional {
		if v.value == "" {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Only Ollama talks to a local server
	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, baseURL, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("%w: provider %s does not generate answers", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	switch {
	case baseURL != "":
		settings.LLM.BaseURL = baseURL
	case provider == domain.AIProviderRemote:
		settings.LLM.BaseURL = domain.DefaultRemoteLLMURL
	case provider == domain.AIProviderOllama:
		settings.LLM.BaseURL = defaultOllamaURL
	default:
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetChunker updates chunk size and overlap.
func (s *SettingsService) SetChunker(chunkSize, overlap int) error {
	params := domain.ChunkerSettings{ChunkSize: chunkSize, Overlap: overlap}
	if err := params.Validate(); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Chunker = params
	return s.Save(settings)
}

// Validate checks that the current settings can run the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrInvalidInput, settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: LLM provider %q is not configured", domain.ErrInvalidInput, settings.LLM.Provider)
	}
	if !settings.VectorIndex.Backend.IsValid() {
		return fmt.Errorf("%w: invalid vector backend: %s", domain.ErrInvalidInput, settings.VectorIndex.Backend)
	}
	if settings.VectorIndex.Backend == domain.VectorBackendPostgres && settings.VectorIndex.DatabaseURL == "" {
		return fmt.Errorf("%w: postgres backend requires a database URL", domain.ErrInvalidInput)
	}
	return settings.Chunker.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// DefaultDataDir returns ~/.docqa, or ./data when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".docqa")
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getStringIfSet keeps an explicitly stored empty value.
func (s *SettingsService) getStringIfSet(key, defaultVal string) string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	backend := domain.VectorBackend(s.configStore.GetString(keyVectorBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getMetadataFormat(defaultVal domain.MetadataFormat) domain.MetadataFormat {
	switch f := domain.MetadataFormat(s.configStore.GetString(keyMetadataFormat)); f {
	case domain.MetadataFormatSQLite, domain.MetadataFormatJSON:
		return f
	default:
		return defaultVal
	}
}
