package domain

import "time"

// Document represents an ingested document after text extraction.
// It is immutable once created; a later ingestion supersedes it
// rather than mutating it.
type Document struct {
	// ID is the unique identifier assigned at ingestion.
	ID string

	// Source is the name of the file the document was extracted from.
	Source string

	// Content is the full extracted text before chunking.
	Content string

	// IngestedAt is when the document entered the pipeline.
	IngestedAt time.Time
}

// Segment is a chunk of a document's text, the unit indexed for retrieval.
// One document produces an ordered sequence of segments covering its text
// with overlap between neighbours.
type Segment struct {
	// ID is the unique identifier for the segment.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Content is the text content of this segment.
	Content string

	// Start and End are character offsets into the document content.
	Start int
	End   int

	// Embedding is the vector representation. Nil until embedded.
	Embedding []float32
}

// IndexRecord is a segment as persisted by the vector store.
// Every stored embedding must have the dimension the store was
// configured with.
type IndexRecord struct {
	// SegmentID identifies the segment; upserts replace by this key.
	SegmentID string

	// Embedding is the segment's vector of fixed dimension.
	Embedding []float32

	// Content is the segment text returned on retrieval.
	Content string

	// Source is the originating file name.
	Source string

	// Position is the segment's ordinal within its document.
	Position int
}

// RetrievedItem is a single similarity search hit. It is produced per
// query and never persisted.
type RetrievedItem struct {
	// SegmentID identifies the matched segment.
	SegmentID string

	// Content is the matched segment text.
	Content string

	// Score is the cosine similarity to the query vector.
	Score float64

	// Source is the originating file name.
	Source string

	// Position is the segment's ordinal within its document.
	Position int
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn in a conversation.
type Message struct {
	// Role is one of RoleSystem, RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}
