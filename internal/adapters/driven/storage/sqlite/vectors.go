package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// chunksCollection names the table holding the index.
const chunksCollection = "chunks"

// vectorIndex implements driven.VectorIndex over the chunks table.
// Filtering runs in SQL; ranking is an exhaustive cosine scan of the
// filtered rows.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

const chunkColumns = `id, document_id, file_name, page_number, total_pages, chunk_index, total_chunks, content, embedding`

// Add stores entries in one transaction, replacing any with the same ID.
func (v *vectorIndex) Add(ctx context.Context, entries []driven.VectorEntry) error {
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%w: entry id is required", domain.ErrInvalidInput)
		}
		if len(e.Embedding) == 0 {
			return fmt.Errorf("%w: entry %s has no embedding", domain.ErrInvalidInput, e.ID)
		}
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			file_name = excluded.file_name,
			page_number = excluded.page_number,
			total_pages = excluded.total_pages,
			chunk_index = excluded.chunk_index,
			total_chunks = excluded.total_chunks,
			content = excluded.content,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		m := e.Metadata
		if _, err := stmt.ExecContext(ctx, e.ID, m.DocumentID, m.FileName, m.PageNumber, m.TotalPages,
			m.ChunkIndex, m.TotalChunks, e.Text, float32SliceToBytes(e.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search returns up to k chunks matching filter, nearest first.
func (v *vectorIndex) Search(
	ctx context.Context, query []float32, k int, filter driven.VectorFilter,
) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	entries, err := v.load(ctx, filter, "")
	if err != nil {
		return nil, err
	}

	ranked := vecmath.Nearest(query, entries, func(e driven.VectorEntry) []float32 { return e.Embedding }, k)
	results := make([]domain.RetrievedChunk, len(ranked))
	for i, c := range ranked {
		results[i] = toRetrieved(c.Item, c.Distance)
	}
	return results, nil
}

// Get returns all chunks matching filter ordered by document and chunk index.
func (v *vectorIndex) Get(ctx context.Context, filter driven.VectorFilter) ([]domain.RetrievedChunk, error) {
	entries, err := v.load(ctx, filter, " ORDER BY document_id, chunk_index")
	if err != nil {
		return nil, err
	}

	results := make([]domain.RetrievedChunk, len(entries))
	for i, e := range entries {
		results[i] = toRetrieved(e, 0)
	}
	return results, nil
}

// DeleteWhere removes chunks matching filter.
func (v *vectorIndex) DeleteWhere(ctx context.Context, filter driven.VectorFilter) (int, error) {
	if filter.IsEmpty() {
		return 0, driven.ErrEmptyDeleteFilter
	}
	where, args := whereClause(filter)
	res, err := v.store.db.ExecContext(ctx, "DELETE FROM chunks"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	return int(n), nil
}

// Count returns the number of stored chunks.
func (v *vectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Stats describes the index.
func (v *vectorIndex) Stats(ctx context.Context) (domain.CollectionStats, error) {
	n, err := v.Count(ctx)
	if err != nil {
		return domain.CollectionStats{}, err
	}
	return domain.CollectionStats{
		Backend:    string(domain.VectorBackendSQLite),
		Collection: chunksCollection,
		Count:      n,
	}, nil
}

// Close is a no-op; the Store owns the connection.
func (v *vectorIndex) Close() error {
	return nil
}

// load reads the chunks admitted by filter.
func (v *vectorIndex) load(ctx context.Context, filter driven.VectorFilter, order string) ([]driven.VectorEntry, error) {
	where, args := whereClause(filter)
	rows, err := v.store.db.QueryContext(ctx, "SELECT "+chunkColumns+" FROM chunks"+where+order, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var entries []driven.VectorEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			e    driven.VectorEntry
			blob []byte
		)
		m := &e.Metadata
		if err := rows.Scan(&e.ID, &m.DocumentID, &m.FileName, &m.PageNumber, &m.TotalPages,
			&m.ChunkIndex, &m.TotalChunks, &e.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		e.Embedding = bytesToFloat32Slice(blob)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return entries, nil
}

// whereClause renders the document filter. An empty filter matches all rows.
func whereClause(filter driven.VectorFilter) (string, []any) {
	if len(filter.DocumentIDs) == 0 {
		return "", nil
	}
	marks, args := placeholders(filter.DocumentIDs)
	return " WHERE document_id IN (" + marks + ")", args
}

func toRetrieved(e driven.VectorEntry, distance float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		ID:       e.ID,
		Text:     e.Text,
		Metadata: e.Metadata,
		Distance: distance,
	}
}
