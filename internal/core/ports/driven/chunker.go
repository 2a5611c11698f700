package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// Chunker splits extracted documents into bounded, overlapping chunks.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// ChunkDocument chunks every page in order. Each chunk carries
	// documentID, its ordinal across the document and the document's total
	// chunk count; chunk IDs are "{documentID}_{ordinal}".
	ChunkDocument(documentID string, doc *domain.ExtractedDocument) ([]domain.Chunk, error)
}
