package driven

import "github.com/custodia-labs/ragchat/internal/core/domain"

// Chunker splits a document's text into overlapping segments that
// cover the source text with no gaps. Blank content yields no
// segments.
type Chunker interface {
	// Chunk returns the ordered segments of doc.
	Chunk(doc *domain.Document) ([]domain.Segment, error)
}
