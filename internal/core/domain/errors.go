package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates a file type no normaliser handles.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNoDocumentsSelected indicates a query was made without a document selection.
	ErrNoDocumentsSelected = errors.New("no documents selected")

	// ErrExtraction indicates a file could not be read or parsed.
	ErrExtraction = errors.New("text extraction failed")

	// ErrIngestion indicates a document could not be chunked, embedded or indexed.
	ErrIngestion = errors.New("document processing failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or failed to respond.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured
	// or rejected an operation.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Generation Errors.

	// ErrLLMTimeout indicates the generation call exceeded its deadline.
	// Queries with retrieved context degrade to a fallback answer.
	ErrLLMTimeout = errors.New("LLM request timed out")

	// ErrLLMUnreachable indicates the generation endpoint could not be reached.
	ErrLLMUnreachable = errors.New("LLM endpoint unreachable")

	// ErrLLMBadResponse indicates a non-success status or an empty or
	// malformed response body.
	ErrLLMBadResponse = errors.New("LLM returned a bad response")
)
