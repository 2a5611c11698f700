// Package postgres provides a driven.VectorIndex backed by PostgreSQL with
// the pgvector extension.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// validTable restricts collection names to plain identifiers.
var validTable = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Config holds connection settings for the index.
type Config struct {
	// DatabaseURL is a lib/pq connection string or URL.
	DatabaseURL string

	// Collection is the table name (default: documents).
	Collection string

	// Dimensions is the embedding size, fixed when the table is created.
	Dimensions int
}

// VectorIndex stores chunks in one table and ranks them with the pgvector
// cosine distance operator.
type VectorIndex struct {
	db         *sql.DB
	table      string
	quoted     string
	dimensions int
}

// NewVectorIndex connects, enables the vector extension, and creates the
// collection table if it does not exist.
func NewVectorIndex(ctx context.Context, cfg Config) (*VectorIndex, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: postgres database url is required", domain.ErrInvalidInput)
	}
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollection
	}
	if !validTable.MatchString(cfg.Collection) {
		return nil, fmt.Errorf("%w: invalid collection name %q", domain.ErrInvalidInput, cfg.Collection)
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be positive", domain.ErrInvalidInput)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	v := &VectorIndex{
		db:         db,
		table:      cfg.Collection,
		quoted:     pq.QuoteIdentifier(cfg.Collection),
		dimensions: cfg.Dimensions,
	}
	if err := v.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return v, nil
}

func (v *VectorIndex) init(ctx context.Context) error {
	if err := v.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id           TEXT PRIMARY KEY,
			document_id  TEXT NOT NULL,
			file_name    TEXT NOT NULL DEFAULT '',
			page_number  INTEGER NOT NULL DEFAULT 0,
			total_pages  INTEGER NOT NULL DEFAULT 0,
			chunk_index  INTEGER NOT NULL,
			total_chunks INTEGER NOT NULL,
			content      TEXT NOT NULL,
			embedding    vector(%d) NOT NULL
		)`, v.quoted, v.dimensions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (document_id, chunk_index)`,
			pq.QuoteIdentifier(v.table+"_document_idx"), v.quoted),
	}
	for _, stmt := range stmts {
		if _, err := v.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialising %s: %w", v.table, err)
		}
	}
	return nil
}

// Add upserts entries in one transaction.
func (v *VectorIndex) Add(ctx context.Context, entries []driven.VectorEntry) error {
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%w: entry id is required", domain.ErrInvalidInput)
		}
		if len(e.Embedding) != v.dimensions {
			return fmt.Errorf("%w: entry %s has %d dimensions, index expects %d",
				domain.ErrInvalidInput, e.ID, len(e.Embedding), v.dimensions)
		}
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, document_id, file_name, page_number, total_pages, chunk_index, total_chunks, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			file_name = EXCLUDED.file_name,
			page_number = EXCLUDED.page_number,
			total_pages = EXCLUDED.total_pages,
			chunk_index = EXCLUDED.chunk_index,
			total_chunks = EXCLUDED.total_chunks,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding
	`, v.quoted))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		m := e.Metadata
		if _, err := stmt.ExecContext(ctx, e.ID, m.DocumentID, m.FileName, m.PageNumber, m.TotalPages,
			m.ChunkIndex, m.TotalChunks, e.Text, pgvector.NewVector(e.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search returns up to k chunks matching filter ordered by cosine distance.
// The filter is part of the WHERE clause so the limit applies after it.
func (v *VectorIndex) Search(
	ctx context.Context, query []float32, k int, filter driven.VectorFilter,
) ([]domain.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	args := []any{pgvector.NewVector(query), k}
	where := ""
	if len(filter.DocumentIDs) > 0 {
		where = "WHERE document_id = ANY($3)"
		args = append(args, pq.Array(filter.DocumentIDs))
	}

	return v.query(ctx, fmt.Sprintf(`
		SELECT id, document_id, file_name, page_number, total_pages, chunk_index, total_chunks, content,
			embedding <=> $1 AS distance
		FROM %s %s
		ORDER BY distance
		LIMIT $2
	`, v.quoted, where), args...)
}

// Get returns all chunks matching filter ordered by document and chunk index.
func (v *VectorIndex) Get(ctx context.Context, filter driven.VectorFilter) ([]domain.RetrievedChunk, error) {
	var args []any
	where := ""
	if len(filter.DocumentIDs) > 0 {
		where = "WHERE document_id = ANY($1)"
		args = append(args, pq.Array(filter.DocumentIDs))
	}

	return v.query(ctx, fmt.Sprintf(`
		SELECT id, document_id, file_name, page_number, total_pages, chunk_index, total_chunks, content,
			0::float8 AS distance
		FROM %s %s
		ORDER BY document_id, chunk_index
	`, v.quoted, where), args...)
}

// DeleteWhere removes chunks matching filter.
func (v *VectorIndex) DeleteWhere(ctx context.Context, filter driven.VectorFilter) (int, error) {
	if filter.IsEmpty() {
		return 0, driven.ErrEmptyDeleteFilter
	}

	res, err := v.db.ExecContext(ctx,
		"DELETE FROM "+v.quoted+" WHERE document_id = ANY($1)", pq.Array(filter.DocumentIDs))
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
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+v.quoted).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Stats describes the index.
func (v *VectorIndex) Stats(ctx context.Context) (domain.CollectionStats, error) {
	n, err := v.Count(ctx)
	if err != nil {
		return domain.CollectionStats{}, err
	}
	return domain.CollectionStats{
		Backend:    string(domain.VectorBackendPostgres),
		Collection: v.table,
		Count:      n,
	}, nil
}

// Close closes the database connection.
func (v *VectorIndex) Close() error {
	return v.db.Close()
}

func (v *VectorIndex) query(ctx context.Context, q string, args ...any) ([]domain.RetrievedChunk, error) {
	rows, err := v.db.QueryContext(ctx, strings.TrimSpace(q), args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.RetrievedChunk
		m := &r.Metadata
		if err := rows.Scan(&r.ID, &m.DocumentID, &m.FileName, &m.PageNumber, &m.TotalPages,
			&m.ChunkIndex, &m.TotalChunks, &r.Text, &r.Distance); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return results, nil
}
