package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DocumentService manages uploaded documents.
type DocumentService interface {
	// Upload stores, extracts and indexes a file. Metadata and the stored
	// file are rolled back when indexing fails.
	Upload(ctx context.Context, fileName string, r io.Reader) (*domain.Document, domain.IngestResult, error)

	// UploadBatch uploads local files independently; one failure does not
	// stop the others.
	UploadBatch(ctx context.Context, paths []string) []domain.IngestResult

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Exists reports whether a document exists.
	Exists(ctx context.Context, id string) (bool, error)

	// Open returns the stored file of a document.
	Open(ctx context.Context, id string) (io.ReadCloser, *domain.Document, error)

	// Delete removes a document's index entries, then its metadata, then its file.
	Delete(ctx context.Context, id string) error

	// SupportedExtensions lists the accepted upload extensions.
	SupportedExtensions() []string
}

// ChatService records conversations around the query pipeline.
type ChatService interface {
	// Ask runs a query, records both sides of the exchange and returns the
	// result. The assistant message carries a sources footer.
	Ask(ctx context.Context, question string, documentIDs []string, topK int) (domain.QueryResult, error)

	// History returns the full chat log.
	History(ctx context.Context) ([]domain.ChatMessage, error)

	// Recent returns at most limit of the latest messages. Zero uses the default.
	Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error)

	// Clear removes the chat log.
	Clear(ctx context.Context) error
}

// DebugService exposes retrieval diagnostics.
type DebugService interface {
	// CollectionStats summarises the vector index.
	CollectionStats(ctx context.Context) (domain.CollectionStats, error)

	// RetrievalTest runs retrieval only, without generation.
	RetrievalTest(ctx context.Context, question string, topK int, documentIDs []string) ([]domain.RetrievedChunk, error)

	// DocumentChunks returns the indexed chunks of a document in order.
	DocumentChunks(ctx context.Context, documentID string) ([]domain.RetrievedChunk, error)
}
