package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService chunks, embeds and indexes extracted documents.
type IngestionService struct {
	chunker  driven.Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
) *IngestionService {
	return &IngestionService{
		chunker:  chunker,
		embedder: embedder,
		index:    index,
	}
}

// Ingest indexes doc under documentID, generating an id when it is empty.
// Every failure is reported in the result; index entries written for the
// document before a failure are removed.
func (s *IngestionService) Ingest(
	ctx context.Context, doc *domain.ExtractedDocument, documentID string,
) domain.IngestResult {
	logger.Section("Ingestion")

	if doc == nil {
		return ingestFailure("", documentID, fmt.Errorf("%w: no extracted document", domain.ErrInvalidInput))
	}
	if documentID == "" {
		documentID = uuid.New().String()
	}
	logger.Debug("Document: %s (ID: %s), %d pages", doc.FileName, documentID, len(doc.Pages))

	count, err := s.ingest(ctx, doc, documentID)
	if err != nil {
		return ingestFailure(doc.FileName, documentID, err)
	}

	logger.Info("Indexed %d chunks for %s", count, doc.FileName)
	return domain.IngestResult{
		Success:       true,
		DocumentID:    documentID,
		FileName:      doc.FileName,
		ChunksCreated: count,
		Message:       fmt.Sprintf("Successfully processed %s", doc.FileName),
	}
}

// ingest runs the three dependent steps and returns the chunk count.
func (s *IngestionService) ingest(ctx context.Context, doc *domain.ExtractedDocument, documentID string) (int, error) {
	if s.chunker == nil {
		return 0, fmt.Errorf("%w: no chunker configured", domain.ErrNotImplemented)
	}
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}

	// 1. CHUNK (stamps document id, ordinal and total on every chunk)
	chunks, err := s.chunker.ChunkDocument(documentID, doc)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: no text content found in %s", domain.ErrExtraction, doc.FileName)
	}
	for _, c := range chunks {
		if err := c.Metadata.Validate(); err != nil {
			return 0, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
	}
	logger.Debug("Created %d chunks with %s", len(chunks), s.chunker.Name())

	// 2. GENERATE EMBEDDINGS (one per chunk, same order)
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingUnavailable, len(embeddings), len(chunks))
	}
	logger.Debug("Generated %d embeddings with %s", len(embeddings), s.embedder.ModelName())

	// 3. STORE IN VECTOR INDEX
	entries := make([]driven.VectorEntry, len(chunks))
	for i, c := range chunks {
		if len(embeddings[i]) == 0 {
			return 0, fmt.Errorf("%w: empty embedding for chunk %s", domain.ErrEmbeddingUnavailable, c.ID)
		}
		entries[i] = driven.VectorEntry{
			ID:        c.ID,
			Embedding: embeddings[i],
			Text:      c.Text,
			Metadata:  c.Metadata,
		}
	}
	if err := s.index.Add(ctx, entries); err != nil {
		s.rollback(ctx, documentID)
		return 0, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}

	return len(chunks), nil
}

// rollback removes any entries already written for the document.
func (s *IngestionService) rollback(ctx context.Context, documentID string) {
	removed, err := s.index.DeleteWhere(ctx, driven.ForDocuments(documentID))
	if err != nil {
		logger.Error("Rollback of index entries for %s failed: %v", documentID, err)
		return
	}
	logger.Warn("Rolled back %d index entries for %s", removed, documentID)
}

// ingestFailure builds the failure variant of an ingestion result.
func ingestFailure(fileName, documentID string, err error) domain.IngestResult {
	msg := fmt.Sprintf("Error processing document %s: %v", fileName, err)
	logger.Warn("%s", msg)
	return domain.IngestResult{
		Success:    false,
		DocumentID: documentID,
		FileName:   fileName,
		Error:      err.Error(),
		Message:    msg,
	}
}
