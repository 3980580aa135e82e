// Package extractors provides implementations of the TextExtractor
// interface for various document formats. Each extractor knows how to
// pull plain text out of a specific file type.
//
// Extractors are registered with the Registry at startup; the first
// registered extractor whose Supports predicate matches a filename
// handles the file.
package extractors
