// Package chunker splits document text into overlapping segments.
package chunker

import (
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// DefaultChunkSize is the default number of characters per segment.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping characters
// between neighbouring segments.
const DefaultOverlap = 100

// sentenceBoundaries are the separators tried when a paragraph still
// exceeds the target size. A cut is placed after the separator.
var sentenceBoundaries = []string{". ", "! ", "? ", "\n"}

// Chunker splits document content into segments of at most chunkSize
// characters. Each segment begins with the trailing overlap characters
// of its predecessor, and cut points snap to paragraph boundaries
// first, then sentence boundaries, then hard character cuts.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the segment size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between segments in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Chunk splits the document content into ordered, overlapping segments.
// Blank content produces no segments.
func (c *Chunker) Chunk(doc *domain.Document) ([]domain.Segment, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}
	content := doc.Content
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	contentLen := len(content)

	// Estimate number of segments
	estimated := (contentLen / (c.chunkSize - c.overlap)) + 1
	segments := make([]domain.Segment, 0, estimated)

	start := 0
	position := 0

	for start < contentLen {
		end := start + c.chunkSize
		if end >= contentLen {
			end = contentLen
		} else {
			end = c.cut(content, start, end)
		}

		segments = append(segments, domain.Segment{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Position:   position,
			Content:    content[start:end],
			Start:      start,
			End:        end,
		})
		position++

		if end == contentLen {
			break
		}

		// The next segment re-reads the tail of this one.
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return segments, nil
}

// cut returns the end offset for a segment starting at start, capped at
// limit. It prefers the latest paragraph boundary within the window,
// then the latest sentence boundary, and falls back to a hard cut at
// limit. Boundaries too close to the segment start are ignored so each
// segment advances past the previous one's overlap region.
func (c *Chunker) cut(content string, start, limit int) int {
	window := content[start:limit]

	if i := strings.LastIndex(window, "\n\n"); i >= c.overlap {
		return start + i + 2
	}

	best := -1
	for _, sep := range sentenceBoundaries {
		if i := strings.LastIndex(window, sep); i >= 0 && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	if best > c.overlap {
		return start + best
	}

	return limit
}
