package extractors

import (
	"github.com/custodia-labs/ragchat/internal/extractors/docx"
	"github.com/custodia-labs/ragchat/internal/extractors/pdf"
	"github.com/custodia-labs/ragchat/internal/extractors/plaintext"
)

// DefaultRegistry returns a registry with all built-in extractors in
// their standard precedence order: PDF, DOCX, then plain text.
func DefaultRegistry() *Registry {
	return NewRegistry(
		pdf.New(),
		docx.New(),
		plaintext.New(),
	)
}
