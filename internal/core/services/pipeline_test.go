package services

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragchat/internal/chunker"
	"github.com/custodia-labs/ragchat/internal/extractors"
)

// hashEmbedder is a deterministic bag-of-words embedder for pipeline
// tests. Texts sharing words get similar vectors.
type hashEmbedder struct {
	dimensions int
}

func (h *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, h.dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	for _, word := range words {
		hash := fnv.New32a()
		hash.Write([]byte(word))
		vector[int(hash.Sum32())%h.dimensions]++
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector, nil
}

func (h *hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := h.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

func (h *hashEmbedder) Dimensions() int            { return h.dimensions }
func (h *hashEmbedder) ModelName() string          { return "hash-test" }
func (h *hashEmbedder) Ping(context.Context) error { return nil }
func (h *hashEmbedder) Close() error               { return nil }

// TestPipeline_RoundTrip runs the real extractor registry, chunker and
// in-memory store together: an ingested marker token must come back for
// a query mentioning it.
func TestPipeline_RoundTrip(t *testing.T) {
	embedder := &hashEmbedder{dimensions: 64}
	store, err := memory.NewStore(embedder.Dimensions())
	require.NoError(t, err)

	ingestor := NewIngestor(extractors.DefaultRegistry(), chunker.New(), embedder, store)
	retriever := NewRetriever(embedder, store)

	content := []byte("ACME-RAG-CHECK-42 is the check token used to verify retrieval.")
	result, err := ingestor.Ingest(context.Background(), content, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SegmentCount)

	items, err := retriever.Retrieve(context.Background(), "What is the ACME-RAG-CHECK-42 token?")
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Contains(t, items[0].Content, "ACME-RAG-CHECK-42")
	assert.Equal(t, "notes.txt", items[0].Source)
}

func TestPipeline_UnrelatedQueryBelowThreshold(t *testing.T) {
	embedder := &hashEmbedder{dimensions: 64}
	store, err := memory.NewStore(embedder.Dimensions())
	require.NoError(t, err)

	ingestor := NewIngestor(extractors.DefaultRegistry(), chunker.New(), embedder, store)
	retriever := NewRetriever(embedder, store)

	_, err = ingestor.Ingest(context.Background(), []byte("The quarterly revenue grew by twelve percent."), "report.txt")
	require.NoError(t, err)

	items, err := retriever.Retrieve(context.Background(), "penguins antarctica migration")
	require.NoError(t, err)
	assert.Empty(t, items)
}
