package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal runs a sentence-transformer model in process.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderRemote is a plain HTTP endpoint taking {"prompt"} and
	// returning {"response"}.
	AIProviderRemote AIProvider = "remote"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderRemote:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local (in-process sentence transformer)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderRemote:
		return "Remote HTTP endpoint"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// ModelDir is where local models are downloaded.
	ModelDir string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderRemote || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. For the remote provider this is the full
	// URL that receives the prompt.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Timeout bounds one generation call.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	if l.Provider == AIProviderRemote && l.BaseURL == "" {
		return false
	}
	return true
}

// VectorBackend selects the vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendSQLite stores vectors alongside metadata in the local database.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendPostgres stores vectors in PostgreSQL with pgvector.
	VectorBackendPostgres VectorBackend = "postgres"

	// VectorBackendMemory keeps vectors in process memory only.
	VectorBackendMemory VectorBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendSQLite, VectorBackendPostgres, VectorBackendMemory:
		return true
	default:
		return false
	}
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	// Backend selects the implementation.
	Backend VectorBackend

	// DatabaseURL is the PostgreSQL connection string (postgres backend).
	DatabaseURL string

	// Collection is the logical collection or table name.
	Collection string
}

// ChunkerSettings holds chunking parameters in characters.
type ChunkerSettings struct {
	ChunkSize int
	Overlap   int
}

// Validate rejects parameters that would stop the chunk window advancing.
func (c ChunkerSettings) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidInput, c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidInput, c.Overlap, c.ChunkSize)
	}
	return nil
}

// RetrievalSettings holds query-time retrieval configuration.
type RetrievalSettings struct {
	// TopK is the default number of chunks requested per query.
	// Requests are always capped by the query pipeline ceiling.
	TopK int
}

// MetadataFormat selects the document and chat persistence backend.
type MetadataFormat string

// Available metadata formats.
const (
	MetadataFormatSQLite MetadataFormat = "sqlite"
	MetadataFormatJSON   MetadataFormat = "json"
)

// StorageSettings holds on-disk locations.
type StorageSettings struct {
	// DataDir holds the database, metadata files and uploads.
	DataDir string

	// MetadataFormat selects sqlite or json-file persistence.
	MetadataFormat MetadataFormat
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// AllowedOrigins are accepted CORS origins.
	AllowedOrigins []string

	// ChatRatePerSecond limits /chat requests. Zero disables limiting.
	ChatRatePerSecond float64

	// ChatBurst is the limiter burst size.
	ChatBurst int

	// MaxUploadBytes bounds multipart upload size.
	MaxUploadBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorIndex VectorIndexSettings
	Chunker     ChunkerSettings
	Retrieval   RetrievalSettings
	Storage     StorageSettings
	Server      ServerSettings
}

// Default values used by DefaultAppSettings.
const (
	DefaultChunkSize        = 700
	DefaultChunkOverlap     = 150
	DefaultTopK             = 3
	DefaultLLMTimeout       = 60 * time.Second
	DefaultRemoteLLMURL     = "http://localhost:8080/chat"
	DefaultCollection       = "documents"
	DefaultServerAddr       = ":8000"
	DefaultMaxUploadBytes   = 50 << 20
	DefaultLocalEmbedModel  = "sentence-transformers/all-MiniLM-L6-v2"
	defaultChatRatePerSec   = 2
	defaultChatBurst        = 5
	defaultFrontendOrigin   = "http://localhost:3000"
	defaultMetadataFileMode = MetadataFormatSQLite
)

// DefaultAppSettings returns settings with sensible defaults.
// Embeddings run locally and answers come from the remote LLM endpoint.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderLocal,
			Model:    DefaultLocalEmbedModel,
		},
		LLM: LLMSettings{
			Provider: AIProviderRemote,
			BaseURL:  DefaultRemoteLLMURL,
			Timeout:  DefaultLLMTimeout,
		},
		VectorIndex: VectorIndexSettings{
			Backend:    VectorBackendSQLite,
			Collection: DefaultCollection,
		},
		Chunker: ChunkerSettings{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Storage: StorageSettings{
			MetadataFormat: defaultMetadataFileMode,
		},
		Server: ServerSettings{
			Addr:              DefaultServerAddr,
			AllowedOrigins:    []string{defaultFrontendOrigin},
			ChatRatePerSecond: defaultChatRatePerSec,
			ChatBurst:         defaultChatBurst,
			MaxUploadBytes:    DefaultMaxUploadBytes,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support answer generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderRemote,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  DefaultLocalEmbedModel,
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Local sentence transformers
		DefaultLocalEmbedModel: 384,
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
