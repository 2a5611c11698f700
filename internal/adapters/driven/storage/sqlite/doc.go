// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements several store interfaces
// through a single database connection:
//
//   - DocumentStore: uploaded document metadata
//   - ChatStore: the append-only chat log
//   - VectorIndex: chunk text, metadata and embeddings
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Vector Search
//
// Embeddings are stored as little-endian float32 blobs. Search narrows rows
// by document id in SQL and ranks the remainder by cosine distance in Go.
//
// # Data Location
//
// By default, the database is stored at ~/.docqa/docqa.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
