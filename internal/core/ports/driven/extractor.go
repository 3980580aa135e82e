package driven

import "context"

// TextExtractor converts raw document bytes into plain text.
// Each extractor handles specific file formats, selected by filename.
type TextExtractor interface {
	// Supports reports whether this extractor handles the given
	// lower-cased filename.
	Supports(filename string) bool

	// Extract converts raw bytes into text. On malformed input it
	// returns an error wrapping domain.ErrExtractionFailed and no
	// text; it never returns partial output.
	Extract(ctx context.Context, content []byte) (string, error)
}

// ExtractorRegistry dispatches extraction to the first registered
// extractor whose Supports predicate matches the filename. Selection
// order is registration order.
type ExtractorRegistry interface {
	// Extract selects an extractor for filename and runs it.
	// Returns domain.ErrUnsupportedFormat when no extractor matches.
	Extract(ctx context.Context, filename string, content []byte) (string, error)

	// Register appends an extractor to the selection order.
	Register(extractor TextExtractor)
}
