package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor runs the ingestion pipeline: extract, chunk, embed, index.
// Each ingestion replaces the corpus wholesale. Concurrent calls are
// serialized so the store never holds segments from two documents.
type Ingestor struct {
	mu        sync.Mutex
	registry  driven.ExtractorRegistry
	chunker   driven.Chunker
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	batchSize int
}

// DefaultEmbedBatchSize is the number of segments embedded per request.
const DefaultEmbedBatchSize = 64

// IngestorOption customises ingestor behaviour.
type IngestorOption func(*Ingestor)

// WithEmbedBatchSize sets the number of segments sent to the embedding
// service per batch.
func WithEmbedBatchSize(n int) IngestorOption {
	return func(i *Ingestor) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// NewIngestor creates an ingestion service.
func NewIngestor(
	registry driven.ExtractorRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	opts ...IngestorOption,
) *Ingestor {
	i := &Ingestor{
		registry:  registry,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		batchSize: DefaultEmbedBatchSize,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest extracts, chunks, embeds and indexes the given file content,
// replacing the previous corpus. Content that extracts to blank text is
// rejected with domain.ErrEmptyDocument and the prior corpus is kept.
func (i *Ingestor) Ingest(ctx context.Context, content []byte, filename string) (*driving.IngestResult, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if len(content) > domain.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrPayloadTooLarge, len(content), domain.MaxUploadSize)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	logger.Info("Ingesting %s (%d bytes)", filename, len(content))

	text, err := i.registry.Extract(ctx, filename, content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, filename)
	}

	document := &domain.Document{
		ID:         uuid.NewString(),
		Source:     filename,
		Content:    text,
		IngestedAt: time.Now().UTC(),
	}

	segments, err := i.chunker.Chunk(document)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", filename, err)
	}
	logger.Debug("Chunked %s into %d segments", filename, len(segments))

	records, err := i.embedSegments(ctx, document, segments)
	if err != nil {
		return nil, err
	}

	// Replace the corpus: clear first, then index the new generation.
	if err := i.store.RemoveAll(ctx); err != nil {
		return nil, i.wrapTimeout(fmt.Errorf("clearing index: %w", err))
	}
	if err := i.store.Upsert(ctx, records); err != nil {
		return nil, i.wrapTimeout(fmt.Errorf("indexing %s: %w", filename, err))
	}

	logger.Info("Indexed %s: %d segments", filename, len(records))

	return &driving.IngestResult{
		DocumentID:   document.ID,
		Source:       document.Source,
		SegmentCount: len(records),
	}, nil
}

// embedSegments embeds segment text in batches and builds index records.
func (i *Ingestor) embedSegments(ctx context.Context, document *domain.Document, segments []domain.Segment) ([]domain.IndexRecord, error) {
	records := make([]domain.IndexRecord, 0, len(segments))

	for start := 0; start < len(segments); start += i.batchSize {
		end := min(start+i.batchSize, len(segments))
		batch := segments[start:end]

		texts := make([]string, len(batch))
		for j, seg := range batch {
			texts[j] = seg.Content
		}

		embeddings, err := i.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, i.wrapTimeout(fmt.Errorf("embedding %s: %w", document.Source, err))
		}
		if len(embeddings) != len(batch) {
			return nil, fmt.Errorf("embedding %s: got %d embeddings for %d segments", document.Source, len(embeddings), len(batch))
		}

		for j, seg := range batch {
			records = append(records, domain.IndexRecord{
				SegmentID: seg.ID,
				Embedding: embeddings[j],
				Content:   seg.Content,
				Source:    document.Source,
				Position:  seg.Position,
			})
		}
	}

	return records, nil
}

// wrapTimeout maps a context deadline failure to the domain timeout error.
func (i *Ingestor) wrapTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrIngestionTimeout, err)
	}
	return err
}
