// Package local provides an in-process embedding service backed by a
// sentence-transformer ONNX model run through hugot.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = domain.DefaultLocalEmbedModel
	DefaultDimensions = 384
	DefaultBatchSize  = 32

	onnxFilePath = "onnx/model.onnx"
	pipelineName = "docqa-embedder"
)

// Config holds configuration for the local embedding service.
type Config struct {
	// Model is the Hugging Face model name (default: all-MiniLM-L6-v2).
	Model string

	// ModelDir is where models are downloaded and cached.
	ModelDir string

	// BatchSize bounds how many texts run through the model at once.
	BatchSize int
}

// EmbeddingService runs a feature extraction pipeline in process.
// The pipeline is not safe for concurrent use, so calls are serialised.
type EmbeddingService struct {
	mu         sync.Mutex
	session    *hugot.Session
	pipeline   *pipelines.FeatureExtractionPipeline
	model      string
	dimensions int
	batchSize  int
}

// NewEmbeddingService prepares the model, downloading it on first use,
// and starts a hugot session with the pure Go backend.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ModelDir == "" {
		return nil, fmt.Errorf("%w: local embeddings need a model directory", domain.ErrInvalidInput)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	modelPath, err := PrepareModel(cfg.Model, cfg.ModelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      pipelineName,
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("create embedding pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("create embedding pipeline: %w", err)
	}

	dimensions := DefaultDimensions
	if d, ok := domain.EmbeddingDimensions()[cfg.Model]; ok {
		dimensions = d
	}

	return &EmbeddingService{
		session:    session,
		pipeline:   pipeline,
		model:      cfg.Model,
		dimensions: dimensions,
		batchSize:  cfg.BatchSize,
	}, nil
}

// ModelPath returns where a model is cached under modelDir.
func ModelPath(model, modelDir string) string {
	return filepath.Join(modelDir, strings.ReplaceAll(model, "/", "_"))
}

// PrepareModel downloads the model if it is not cached and returns its path.
func PrepareModel(model, modelDir string) (string, error) {
	modelPath := ModelPath(model, modelDir)
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat model: %w", err)
	}

	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	logger.Info("Downloading embedding model %s to %s", model, modelDir)
	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = onnxFilePath
	downloaded, err := hugot.DownloadModel(model, modelDir, opts)
	if err != nil {
		return "", fmt.Errorf("download model %s: %w", model, err)
	}
	return downloaded, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch runs texts through the model in batches of batchSize.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipeline == nil {
		return nil, errors.New("local embedding service is closed")
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+s.batchSize, len(texts))
		result, err := s.pipeline.RunPipeline(texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("run embedding pipeline: %w", err)
		}
		if len(result.Embeddings) != end-start {
			return nil, fmt.Errorf("embedding pipeline returned %d vectors for %d texts", len(result.Embeddings), end-start)
		}
		embeddings = append(embeddings, result.Embeddings...)
	}

	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a short probe to confirm the model loads and runs.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	_, err := s.Embed(ctx, "ping")
	return err
}

// Close destroys the hugot session.
func (s *EmbeddingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	s.pipeline = nil
	return err
}
