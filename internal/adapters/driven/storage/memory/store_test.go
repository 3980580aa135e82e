package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

func record(id string, embedding []float32) domain.IndexRecord {
	return domain.IndexRecord{
		SegmentID: id,
		Embedding: embedding,
		Content:   "content of " + id,
		Source:    "doc.txt",
	}
}

func TestNewStore(t *testing.T) {
	t.Run("valid dimensions", func(t *testing.T) {
		s, err := NewStore(3)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		_, err := NewStore(0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(2)
	require.NoError(t, err)

	err = s.Upsert(ctx, []domain.IndexRecord{
		record("seg-1", []float32{1, 0}),
		record("seg-2", []float32{0, 1}),
	})
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpsert_ReplacesByID(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(2)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{record("seg-1", []float32{1, 0})}))
	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{record("seg-1", []float32{0, 1})}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	items, err := s.Search(ctx, []float32{0, 1}, 5, 0.9)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "seg-1", items[0].SegmentID)
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(3)
	require.NoError(t, err)

	err = s.Upsert(ctx, []domain.IndexRecord{record("seg-1", []float32{1, 0})})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	// A rejected batch must not be partially applied.
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(2)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{
		record("seg-a", []float32{1, 0}),
		record("seg-b", []float32{0.8, 0.6}),
		record("seg-c", []float32{0, 1}),
	}))

	items, err := s.Search(ctx, []float32{1, 0}, 5, 0.5)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "seg-a", items[0].SegmentID)
	assert.InDelta(t, 1.0, items[0].Score, 1e-9)
	assert.Equal(t, "seg-b", items[1].SegmentID)
	assert.InDelta(t, 0.8, items[1].Score, 1e-9)
}

func TestSearch_TopK(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(2)
	require.NoError(t, err)

	records := make([]domain.IndexRecord, 0, 10)
	for i := 0; i < 10; i++ {
		records = append(records, record(fmt.Sprintf("seg-%02d", i), []float32{1, 0}))
	}
	require.NoError(t, s.Upsert(ctx, records))

	items, err := s.Search(ctx, []float32{1, 0}, 3, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestSearch_TieBreakBySegmentID(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(2)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{
		record("seg-z", []float32{1, 0}),
		record("seg-a", []float32{2, 0}),
		record("seg-m", []float32{3, 0}),
	}))

	items, err := s.Search(ctx, []float32{1, 0}, 5, 0)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, "seg-a", items[0].SegmentID)
	assert.Equal(t, "seg-m", items[1].SegmentID)
	assert.Equal(t, "seg-z", items[2].SegmentID)
}

func TestSearch_MinScoreFilters(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(2)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{
		record("seg-near", []float32{1, 0}),
		record("seg-far", []float32{-1, 0}),
	}))

	items, err := s.Search(ctx, []float32{1, 0}, 5, 0.5)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "seg-near", items[0].SegmentID)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(3)
	require.NoError(t, err)

	_, err = s.Search(ctx, []float32{1, 0}, 5, 0)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestRemoveAll(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(2)
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, []domain.IndexRecord{record("seg-1", []float32{1, 0})}))
	require.NoError(t, s.RemoveAll(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
