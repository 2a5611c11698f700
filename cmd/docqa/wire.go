package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/filestore"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/normalisers"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// pipeline holds the wired services and everything that must be closed.
type pipeline struct {
	documents *services.DocumentService
	chat      *services.ChatService
	debug     *services.DebugService
	warnings  []string
	closers   []func() error
}

// Close releases resources in reverse construction order.
func (p *pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			logger.Warn("close: %v", err)
		}
	}
}

// buildPipeline constructs storage, AI services and the core services from
// settings. On error everything opened so far is closed.
func buildPipeline(ctx context.Context, settings domain.AppSettings, configDir string) (p *pipeline, err error) {
	p = &pipeline{}
	defer func() {
		if err != nil {
			p.Close()
			p = nil
		}
	}()

	logger.Section("Startup")
	dataDir := settings.Storage.DataDir

	var sqliteStore *sqlite.Store
	openSQLite := func() (*sqlite.Store, error) {
		if sqliteStore != nil {
			return sqliteStore, nil
		}
		s, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		p.closers = append(p.closers, s.Close)
		sqliteStore = s
		return s, nil
	}

	var (
		docStore  driven.DocumentStore
		chatStore driven.ChatStore
	)
	switch settings.Storage.MetadataFormat {
	case domain.MetadataFormatJSON:
		if docStore, err = jsonfile.NewDocumentStore(dataDir); err != nil {
			return p, err
		}
		if chatStore, err = jsonfile.NewChatStore(dataDir); err != nil {
			return p, err
		}
	default:
		s, err := openSQLite()
		if err != nil {
			return p, err
		}
		docStore, chatStore = s.DocumentStore(), s.ChatStore()
	}
	logger.Debug("metadata: %s in %s", settings.Storage.MetadataFormat, dataDir)

	files, err := filestore.NewLocal(filepath.Join(dataDir, "uploads"))
	if err != nil {
		return p, fmt.Errorf("opening upload store: %w", err)
	}

	aiResult, err := ai.Init(settings)
	if err != nil {
		return p, err
	}
	p.closers = append(p.closers, func() error {
		aiResult.Close()
		return nil
	})
	p.warnings = aiResult.Warnings

	index, err := openVectorIndex(ctx, settings.VectorIndex, aiResult.EmbeddingService, openSQLite)
	if err != nil {
		return p, err
	}
	if settings.VectorIndex.Backend != domain.VectorBackendSQLite {
		p.closers = append(p.closers, index.Close)
	}
	logger.Debug("vector index: %s", settings.VectorIndex.Backend)

	chunks, err := chunker.New(
		chunker.WithChunkSize(settings.Chunker.ChunkSize),
		chunker.WithOverlap(settings.Chunker.Overlap),
	)
	if err != nil {
		return p, fmt.Errorf("configuring chunker: %w", err)
	}

	query := services.NewQueryService(aiResult.EmbeddingService, index, aiResult.LLMService)
	if prompts, err := file.NewPromptStore(promptDir(configDir)); err == nil {
		query.SetPromptStore(prompts)
	} else {
		p.warnings = append(p.warnings, fmt.Sprintf("using built-in prompt: %v", err))
	}

	ingestion := services.NewIngestionService(chunks, aiResult.EmbeddingService, index)
	p.documents = services.NewDocumentService(docStore, files, normalisers.NewDefaultRegistry(), ingestion, index)
	p.chat = services.NewChatService(chatStore, query)
	p.debug = services.NewDebugService(index, query)
	return p, nil
}

// openVectorIndex selects the index backend. The sqlite index shares the
// metadata database and is closed with it.
func openVectorIndex(
	ctx context.Context,
	cfg domain.VectorIndexSettings,
	embedder driven.EmbeddingService,
	openSQLite func() (*sqlite.Store, error),
) (driven.VectorIndex, error) {
	switch cfg.Backend {
	case domain.VectorBackendMemory:
		return memory.NewVectorIndex(), nil
	case domain.VectorBackendPostgres:
		idx, err := postgres.NewVectorIndex(ctx, postgres.Config{
			DatabaseURL: cfg.DatabaseURL,
			Collection:  cfg.Collection,
			Dimensions:  embedder.Dimensions(),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		return idx, nil
	case domain.VectorBackendSQLite, "":
		s, err := openSQLite()
		if err != nil {
			return nil, err
		}
		return s.VectorIndex(), nil
	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}

// promptDir places prompts beside the config file. Empty selects the
// store's default.
func promptDir(configDir string) string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "prompts")
}
