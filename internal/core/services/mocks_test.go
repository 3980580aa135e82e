package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// mockRegistry returns canned text or a fixed error.
type mockRegistry struct {
	text string
	err  error

	extractedFilename string
}

func (m *mockRegistry) Extract(_ context.Context, filename string, _ []byte) (string, error) {
	m.extractedFilename = filename
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockRegistry) Register(driven.TextExtractor) {}

// mockChunker splits on a fixed separator, one segment per part.
type mockChunker struct {
	err error
}

func (m *mockChunker) Chunk(doc *domain.Document) ([]domain.Segment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Segment{
		{ID: uuid.NewString(), DocumentID: doc.ID, Position: 0, Content: doc.Content},
	}, nil
}

// mockEmbedder returns a fixed vector per text.
type mockEmbedder struct {
	dimensions int
	err        error

	batchCalls int
	embedded   []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.err != nil {
		return nil, m.err
	}
	m.embedded = append(m.embedded, texts...)
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, m.dims())
		vec[0] = 1
		vecs[i] = vec
	}
	return vecs, nil
}

func (m *mockEmbedder) dims() int {
	if m.dimensions == 0 {
		return 3
	}
	return m.dimensions
}

func (m *mockEmbedder) Dimensions() int            { return m.dims() }
func (m *mockEmbedder) ModelName() string          { return "mock-embed" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

// mockStore records calls and serves canned search results.
type mockStore struct {
	mu      sync.Mutex
	records []domain.IndexRecord
	items   []domain.RetrievedItem

	upsertErr    error
	removeAllErr error
	searchErr    error

	removeAllCalls int
	searchCalls    int
	lastK          int
	lastMinScore   float64
}

func (m *mockStore) Upsert(_ context.Context, records []domain.IndexRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockStore) RemoveAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeAllCalls++
	if m.removeAllErr != nil {
		return m.removeAllErr
	}
	m.records = nil
	return nil
}

func (m *mockStore) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func (m *mockStore) Search(_ context.Context, _ []float32, k int, minScore float64) ([]domain.RetrievedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	m.lastK = k
	m.lastMinScore = minScore
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.items, nil
}

func (m *mockStore) Close() error { return nil }

// mockMemory records appends in order.
type mockMemory struct {
	mu       sync.Mutex
	appended map[string][]domain.Message
	history  []domain.Message
}

func (m *mockMemory) Append(conversationID string, msg domain.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appended == nil {
		m.appended = make(map[string][]domain.Message)
	}
	m.appended[conversationID] = append(m.appended[conversationID], msg)
}

func (m *mockMemory) History(string) []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history
}

func (m *mockMemory) turns(conversationID string) []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appended[conversationID]
}

// mockGenerator streams canned tokens, optionally failing mid-stream.
type mockGenerator struct {
	tokens    []string
	streamErr error

	lastMessages []domain.Message
}

func (m *mockGenerator) Generate(context.Context, []domain.Message, driven.GenerateOptions) (string, error) {
	return "", nil
}

func (m *mockGenerator) Stream(ctx context.Context, messages []domain.Message, _ driven.GenerateOptions) (<-chan string, <-chan error) {
	m.lastMessages = messages

	tokens := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(tokens)
		defer close(errs)
		for _, token := range m.tokens {
			select {
			case tokens <- token:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
		if m.streamErr != nil {
			errs <- m.streamErr
		}
	}()
	return tokens, errs
}

func (m *mockGenerator) ModelName() string          { return "mock-llm" }
func (m *mockGenerator) Ping(context.Context) error { return nil }
func (m *mockGenerator) Close() error               { return nil }
