package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// IngestionService chunks, embeds and indexes extracted documents.
type IngestionService interface {
	// Ingest indexes one extracted document under documentID, generating an
	// id when documentID is empty. Failures are reported in the result.
	Ingest(ctx context.Context, doc *domain.ExtractedDocument, documentID string) domain.IngestResult
}

// QueryService answers questions from selected documents.
type QueryService interface {
	// Query retrieves up to topK chunks from the selected documents and
	// generates a grounded answer. topK is capped by the pipeline ceiling.
	Query(ctx context.Context, question string, topK int, documentIDs []string) domain.QueryResult
}
