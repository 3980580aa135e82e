// Package memory provides an in-memory vector store using brute-force
// cosine similarity. Suitable for tests and single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store keeps index records in memory, keyed by segment ID.
type Store struct {
	mu         sync.RWMutex
	dimensions int
	records    map[string]domain.IndexRecord
}

// NewStore creates an in-memory vector store for vectors of the given
// dimension.
func NewStore(dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}
	return &Store{
		dimensions: dimensions,
		records:    make(map[string]domain.IndexRecord),
	}, nil
}

// Upsert inserts or replaces records by segment ID.
func (s *Store) Upsert(_ context.Context, records []domain.IndexRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range records {
		if len(rec.Embedding) != s.dimensions {
			return fmt.Errorf("%w: record %s has dimension %d, store expects %d",
				domain.ErrDimensionMismatch, rec.SegmentID, len(rec.Embedding), s.dimensions)
		}
	}
	for _, rec := range records {
		s.records[rec.SegmentID] = rec
	}
	return nil
}

// RemoveAll clears all records.
func (s *Store) RemoveAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]domain.IndexRecord)
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Search returns the top-k records by cosine similarity, filtered to
// score >= minScore. Ties are broken by ascending segment ID.
func (s *Store) Search(_ context.Context, query []float32, k int, minScore float64) ([]domain.RetrievedItem, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("%w: query has dimension %d, store expects %d",
			domain.ErrDimensionMismatch, len(query), s.dimensions)
	}
	if k <= 0 {
		k = driven.DefaultTopK
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.RetrievedItem, 0, len(s.records))
	for _, rec := range s.records {
		score := storage.Cosine(query, rec.Embedding)
		if score < minScore {
			continue
		}
		items = append(items, domain.RetrievedItem{
			SegmentID: rec.SegmentID,
			Content:   rec.Content,
			Score:     score,
			Source:    rec.Source,
			Position:  rec.Position,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].SegmentID < items[j].SegmentID
	})

	if len(items) > k {
		items = items[:k]
	}
	return items, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
