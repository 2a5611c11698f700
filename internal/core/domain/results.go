package domain

// IngestResult is the outcome of ingesting one document.
// Failures are reported here rather than as errors so callers can roll back.
type IngestResult struct {
	Success       bool
	DocumentID    string
	FileName      string
	ChunksCreated int
	Message       string
	Error         string
}

// QueryResult is the outcome of a question against selected documents.
type QueryResult struct {
	Success bool

	// Answer is the generated answer, a fixed message, or a fallback preview.
	Answer string

	// Sources are the deduplicated citations in retrieval order.
	Sources []Source

	// Error describes the failure when Success is false.
	Error string

	// Fallback is set when the answer was synthesised from retrieved
	// content because generation timed out.
	Fallback bool
}

// CollectionStats summarises the vector index.
type CollectionStats struct {
	// Backend names the vector index implementation.
	Backend string

	// Collection is the index or table name.
	Collection string

	// Count is the number of stored chunks.
	Count int
}
