package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no registered extractor matches the
	// uploaded file. This is a user error, reported as a rejection.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed indicates the document is malformed and no text
	// could be extracted. Not retried.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmptyDocument indicates extraction produced no usable text.
	// Ingestion is a no-op and the prior corpus is preserved.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrPayloadTooLarge indicates an upload exceeds the size limit.
	// Rejected before any processing.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrDimensionMismatch indicates an embedding's dimension does not
	// match the vector store's configured dimension. This is a
	// configuration error and must not silently degrade.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStoreUnavailable indicates the vector store backend failed.
	// Transient; eligible for caller-level retry.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrIngestionTimeout indicates an ingestion exceeded its deadline.
	ErrIngestionTimeout = errors.New("ingestion timed out")

	// ErrGenerationFailed indicates the generative model failed.
	// Surfaced mid-stream, it terminates the token sequence cleanly.
	ErrGenerationFailed = errors.New("generation failed")
)
