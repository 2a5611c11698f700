package domain

import (
	"fmt"
	"strconv"
)

// Placeholders rendered in place of missing chunk metadata.
const (
	UnknownFileName = "Unknown"
	UnknownPage     = "N/A"
)

// ChunkMetadata is the structured metadata stamped on every chunk.
type ChunkMetadata struct {
	// DocumentID links the chunk to its Document.
	DocumentID string

	// FileName is the display name of the source file.
	FileName string

	// PageNumber is the 1-based page the chunk was cut from. Zero means unknown.
	PageNumber int

	// TotalPages is the page count of the source document.
	TotalPages int

	// ChunkIndex is the ordinal of the chunk within its document.
	ChunkIndex int

	// TotalChunks is the number of chunks produced for the document.
	TotalChunks int
}

// Validate checks the invariants required before a chunk is indexed.
func (m ChunkMetadata) Validate() error {
	if m.DocumentID == "" {
		return fmt.Errorf("%w: chunk metadata missing document id", ErrInvalidInput)
	}
	if m.TotalChunks <= 0 {
		return fmt.Errorf("%w: total chunks must be positive, got %d", ErrInvalidInput, m.TotalChunks)
	}
	if m.ChunkIndex < 0 || m.ChunkIndex >= m.TotalChunks {
		return fmt.Errorf("%w: chunk index %d out of range [0,%d)", ErrInvalidInput, m.ChunkIndex, m.TotalChunks)
	}
	return nil
}

// DisplayFileName returns the file name or the "Unknown" placeholder.
func (m ChunkMetadata) DisplayFileName() string {
	if m.FileName == "" {
		return UnknownFileName
	}
	return m.FileName
}

// DisplayPage returns the page number or the "N/A" placeholder.
func (m ChunkMetadata) DisplayPage() string {
	if m.PageNumber <= 0 {
		return UnknownPage
	}
	return strconv.Itoa(m.PageNumber)
}

// Chunk is a bounded slice of a document's extracted text.
// Chunks exist only alongside their embedding in the vector index.
type Chunk struct {
	// ID is "{documentID}_{ordinal}".
	ID string

	// Text is the whitespace-trimmed chunk content.
	Text string

	// Metadata carries provenance and ordering.
	Metadata ChunkMetadata
}

// ChunkID returns the index key for the ordinal-th chunk of a document.
func ChunkID(documentID string, ordinal int) string {
	return fmt.Sprintf("%s_%d", documentID, ordinal)
}

// RetrievedChunk is a transient similarity search hit.
type RetrievedChunk struct {
	// ID is the chunk key in the index.
	ID string

	// Text is the chunk content.
	Text string

	// Metadata is the metadata stored with the chunk.
	Metadata ChunkMetadata

	// Distance is the index metric distance to the query (lower is closer).
	Distance float64
}

// Score returns the relevance score, 1 - distance. Higher is more relevant.
func (r RetrievedChunk) Score() float64 {
	return 1 - r.Distance
}
