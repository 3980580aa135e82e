package driving

import "context"

// IngestResult summarises a completed ingestion.
type IngestResult struct {
	// DocumentID is the identifier assigned to the ingested document.
	DocumentID string

	// Source is the originating file name.
	Source string

	// SegmentCount is the number of segments indexed.
	SegmentCount int
}

// IngestService replaces the corpus with the content of one document.
type IngestService interface {
	// Ingest extracts, chunks, embeds and indexes the given file
	// content. The previous corpus is replaced wholesale. Returns
	// domain.ErrPayloadTooLarge, domain.ErrUnsupportedFormat,
	// domain.ErrExtractionFailed or domain.ErrEmptyDocument for the
	// corresponding rejections; on ErrEmptyDocument the prior corpus
	// is left untouched.
	Ingest(ctx context.Context, content []byte, filename string) (*IngestResult, error)
}
