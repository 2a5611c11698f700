package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex using
// exhaustive cosine ranking.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []driven.VectorEntry
	byID    map[string]int
}

// NewVectorIndex creates a new in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		byID: make(map[string]int),
	}
}

// Add stores entries, replacing any with the same ID.
func (v *VectorIndex) Add(_ context.Context, entries []driven.VectorEntry) error {
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%w: entry id is required", domain.ErrInvalidInput)
		}
		if len(e.Embedding) == 0 {
			return fmt.Errorf("%w: entry %s has no embedding", domain.ErrInvalidInput, e.ID)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, e := range entries {
		e.Embedding = slices.Clone(e.Embedding)
		if i, ok := v.byID[e.ID]; ok {
			v.entries[i] = e
			continue
		}
		v.byID[e.ID] = len(v.entries)
		v.entries = append(v.entries, e)
	}
	return nil
}

// Search returns up to k entries matching filter, nearest first.
func (v *VectorIndex) Search(
	_ context.Context, query []float32, k int, filter driven.VectorFilter,
) ([]domain.RetrievedChunk, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	matching := v.matching(filter)
	ranked := vecmath.Nearest(query, matching, func(e driven.VectorEntry) []float32 { return e.Embedding }, k)

	results := make([]domain.RetrievedChunk, len(ranked))
	for i, c := range ranked {
		results[i] = toRetrieved(c.Item, c.Distance)
	}
	return results, nil
}

// Get returns all entries matching filter ordered by document and chunk index.
func (v *VectorIndex) Get(_ context.Context, filter driven.VectorFilter) ([]domain.RetrievedChunk, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	matching := v.matching(filter)
	slices.SortStableFunc(matching, func(a, b driven.VectorEntry) int {
		if c := strings.Compare(a.Metadata.DocumentID, b.Metadata.DocumentID); c != 0 {
			return c
		}
		return a.Metadata.ChunkIndex - b.Metadata.ChunkIndex
	})

	results := make([]domain.RetrievedChunk, len(matching))
	for i, e := range matching {
		results[i] = toRetrieved(e, 0)
	}
	return results, nil
}

// DeleteWhere removes entries matching filter.
func (v *VectorIndex) DeleteWhere(_ context.Context, filter driven.VectorFilter) (int, error) {
	if filter.IsEmpty() {
		return 0, driven.ErrEmptyDeleteFilter
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	kept := v.entries[:0]
	removed := 0
	for _, e := range v.entries {
		if filter.Matches(e.Metadata.DocumentID) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	v.entries = kept

	v.byID = make(map[string]int, len(v.entries))
	for i, e := range v.entries {
		v.byID[e.ID] = i
	}
	return removed, nil
}

// Count returns the number of stored entries.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries), nil
}

// Stats describes the index.
func (v *VectorIndex) Stats(ctx context.Context) (domain.CollectionStats, error) {
	count, _ := v.Count(ctx)
	return domain.CollectionStats{
		Backend:    string(domain.VectorBackendMemory),
		Collection: domain.DefaultCollection,
		Count:      count,
	}, nil
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}

// matching returns a copy of the entries admitted by filter.
// Caller must hold the lock.
func (v *VectorIndex) matching(filter driven.VectorFilter) []driven.VectorEntry {
	result := make([]driven.VectorEntry, 0, len(v.entries))
	for _, e := range v.entries {
		if filter.Matches(e.Metadata.DocumentID) {
			result = append(result, e)
		}
	}
	return result
}

func toRetrieved(e driven.VectorEntry, distance float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		ID:       e.ID,
		Text:     e.Text,
		Metadata: e.Metadata,
		Distance: distance,
	}
}
