// Package pdf extracts text from PDF documents using the pdftotext
// command line tool (part of poppler-utils).
package pdf

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// CommandRunner executes an external command and returns its stdout.
// Abstracted for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor handles PDF documents by shelling out to pdftotext.
type Extractor struct {
	runner CommandRunner
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRunner overrides the command runner. Used in tests.
func WithRunner(r CommandRunner) Option {
	return func(e *Extractor) {
		e.runner = r
	}
}

// New creates a new PDF extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{runner: execRunner{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Supports reports whether the filename has the .pdf extension.
func (e *Extractor) Supports(filename string) bool {
	return strings.HasSuffix(filename, ".pdf")
}

// Extract writes the content to a temporary file and runs
// "pdftotext <file> -" to get the text on stdout.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	dir, err := os.MkdirTemp("", "ragchat-pdf-")
	if err != nil {
		return "", fmt.Errorf("%w: temp dir: %v", domain.ErrExtractionFailed, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", fmt.Errorf("%w: write temp file: %v", domain.ErrExtractionFailed, err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", path, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v", domain.ErrExtractionFailed, err)
	}

	return string(out), nil
}
