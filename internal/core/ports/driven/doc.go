// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): text extraction, chunking, embedding,
// vector storage, conversation memory and answer generation.
package driven
