package extractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry holds an ordered list of extractors and dispatches by
// filename. Selection order is registration order, so callers control
// precedence deterministically.
type Registry struct {
	extractors []driven.TextExtractor
}

// NewRegistry creates a registry with the given extractors, in order.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	return &Registry{extractors: extractors}
}

// Register appends an extractor to the selection order.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.extractors = append(r.extractors, extractor)
}

// Extract runs the first extractor that supports filename. The match is
// made against the lower-cased filename. Returns an error wrapping
// domain.ErrUnsupportedFormat, carrying the filename, when no extractor
// matches.
func (r *Registry) Extract(ctx context.Context, filename string, content []byte) (string, error) {
	name := strings.ToLower(filename)

	for _, extractor := range r.extractors {
		if !extractor.Supports(name) {
			continue
		}
		logger.Debug("Extracting %q", filename)
		return extractor.Extract(ctx, content)
	}

	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filename)
}
