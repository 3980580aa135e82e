// Package sqlite provides a SQLite-backed vector store. Embeddings are
// persisted as binary blobs and similarity is computed in-process, which
// keeps the index durable across restarts without an external service.
package sqlite
