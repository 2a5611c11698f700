package driven

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// VectorIndex stores chunk embeddings with their text and metadata and
// answers nearest-neighbour queries.
//
// Search must apply the filter inside the index before ranking, so that k
// results are drawn only from matching entries.
type VectorIndex interface {
	// Add stores entries, replacing any stored entry with the same ID.
	// Each entry needs an ID and a non-empty embedding.
	Add(ctx context.Context, entries []VectorEntry) error

	// Search returns up to k entries closest to query, best first.
	Search(ctx context.Context, query []float32, k int, filter VectorFilter) ([]domain.RetrievedChunk, error)

	// Get returns all entries matching the filter ordered by chunk index.
	Get(ctx context.Context, filter VectorFilter) ([]domain.RetrievedChunk, error)

	// DeleteWhere removes all entries matching the filter and returns how many
	// were removed. An empty filter is rejected with ErrEmptyDeleteFilter.
	DeleteWhere(ctx context.Context, filter VectorFilter) (int, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Stats describes the index for diagnostics.
	Stats(ctx context.Context) (domain.CollectionStats, error)

	// Close releases resources.
	Close() error
}

// ErrEmptyDeleteFilter is returned by DeleteWhere for a filter naming no
// documents.
var ErrEmptyDeleteFilter = fmt.Errorf("%w: delete filter names no documents", domain.ErrInvalidInput)

// VectorEntry is one chunk with its embedding.
type VectorEntry struct {
	ID        string
	Embedding []float32
	Text      string
	Metadata  domain.ChunkMetadata
}

// VectorFilter restricts index operations by document id.
// An empty DocumentIDs matches every entry.
type VectorFilter struct {
	DocumentIDs []string
}

// IsEmpty reports whether the filter names no documents.
func (f VectorFilter) IsEmpty() bool {
	return len(f.DocumentIDs) == 0
}

// Matches reports whether the filter admits the given document id.
func (f VectorFilter) Matches(documentID string) bool {
	if f.IsEmpty() {
		return true
	}
	for _, id := range f.DocumentIDs {
		if id == documentID {
			return true
		}
	}
	return false
}

// ForDocuments returns a filter matching the given document ids.
func ForDocuments(ids ...string) VectorFilter {
	return VectorFilter{DocumentIDs: ids}
}
