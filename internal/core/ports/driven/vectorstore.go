package driven

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// Retrieval defaults applied when a caller passes zero values.
const (
	// DefaultTopK is the default number of retrieved items per query.
	DefaultTopK = 5

	// DefaultMinScore is the default similarity threshold.
	DefaultMinScore = 0.5
)

// VectorStore persists index records and answers similarity queries.
//
// The store holds exactly one generation of ingested content at a time:
// corpus replacement is RemoveAll followed by Upsert, never a partial
// merge. Concurrent readers during that window observe an empty corpus,
// never mixed generations.
type VectorStore interface {
	// Upsert inserts or replaces records by segment ID as a single bulk
	// operation. Returns an error wrapping domain.ErrDimensionMismatch
	// if any record's embedding does not match the configured dimension.
	Upsert(ctx context.Context, records []domain.IndexRecord) error

	// RemoveAll clears all records.
	RemoveAll(ctx context.Context) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Search returns up to k records with cosine similarity >= minScore
	// against the query vector, ordered by descending score. Ties are
	// broken by ascending segment ID so results are deterministic.
	Search(ctx context.Context, query []float32, k int, minScore float64) ([]domain.RetrievedItem, error)

	// Close releases resources.
	Close() error
}
