// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Pipeline Capabilities
//
// The question-answering pipeline treats these as opaque providers:
//
//   - EmbeddingService: computes a fixed-dimension vector for text
//   - VectorIndex: k-nearest-neighbour search with a document-id predicate
//   - LLMService: one prompt in, one answer out, with distinguishable failures
//
// # Persistence
//
//   - DocumentStore: uploaded document metadata
//   - ChatStore: append-only chat log
//   - FileStore: uploaded file bytes
//   - ConfigStore, PromptStore: configuration and prompt templates
//
// # Extraction
//
//   - Normaliser: turns a stored file into page-numbered text
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
