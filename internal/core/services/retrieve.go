package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Retriever answers similarity queries against the indexed corpus.
type Retriever struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	topK     int
	minScore float64
}

// RetrieverOption customises retrieval behaviour.
type RetrieverOption func(*Retriever)

// WithTopK sets the maximum number of retrieved items per query.
func WithTopK(k int) RetrieverOption {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithMinScore sets the similarity threshold below which items are
// discarded.
func WithMinScore(score float64) RetrieverOption {
	return func(r *Retriever) {
		r.minScore = score
	}
}

// NewRetriever creates a retrieval service.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		embedder: embedder,
		store:    store,
		topK:     driven.DefaultTopK,
		minScore: driven.DefaultMinScore,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns the corpus segments most similar to the query.
// An empty corpus yields no items without calling the embedding
// service.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.RetrievedItem, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	count, err := r.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting index: %w", err)
	}
	if count == 0 {
		logger.Debug("Index is empty, skipping retrieval")
		return nil, nil
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	items, err := r.store.Search(ctx, embedding, r.topK, r.minScore)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	logger.Debug("Retrieved %d items for query", len(items))
	return items, nil
}
