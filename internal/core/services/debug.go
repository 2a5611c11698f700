package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure DebugService implements the interface.
var _ driving.DebugService = (*DebugService)(nil)

// retriever runs retrieval without generation.
type retriever interface {
	Retrieve(ctx context.Context, question string, topK int, documentIDs []string) ([]domain.RetrievedChunk, error)
}

// DebugService exposes retrieval diagnostics.
type DebugService struct {
	index     driven.VectorIndex
	retriever retriever
}

// NewDebugService creates a new debug service.
func NewDebugService(index driven.VectorIndex, retriever retriever) *DebugService {
	return &DebugService{index: index, retriever: retriever}
}

// CollectionStats summarises the vector index.
func (s *DebugService) CollectionStats(ctx context.Context) (domain.CollectionStats, error) {
	if s.index == nil {
		return domain.CollectionStats{}, domain.ErrVectorIndexUnavailable
	}
	return s.index.Stats(ctx)
}

// RetrievalTest runs retrieval only. An empty selection searches every document.
func (s *DebugService) RetrievalTest(
	ctx context.Context, question string, topK int, documentIDs []string,
) ([]domain.RetrievedChunk, error) {
	if s.retriever == nil {
		return nil, domain.ErrNotImplemented
	}
	chunks, err := s.retriever.Retrieve(ctx, question, topK, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieval test: %w", err)
	}
	return chunks, nil
}

// DocumentChunks returns the indexed chunks of a document in order.
func (s *DebugService) DocumentChunks(ctx context.Context, documentID string) ([]domain.RetrievedChunk, error) {
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	return s.index.Get(ctx, driven.ForDocuments(documentID))
}
