// Package storage provides shared helpers for the vector store
// adapters: cosine similarity and the on-disk embedding codec.
package storage
