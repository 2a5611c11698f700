// Package domain defines the core business entities for docqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded source file
//   - Page: Extracted text of one page or section
//   - Chunk: A bounded, overlapping slice of a document, the unit of retrieval
//   - RetrievedChunk: A chunk returned by similarity search with its distance
//   - Source: A deduplicated (file, page) citation
//   - ChatMessage: One entry in the append-only chat log
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
