package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *GenerationService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewGenerationService(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	return svc
}

func TestNewGenerationService_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerationService(Config{})
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		fmt.Fprint(w, `{"choices":[{"message":{"content":"the answer"},"finish_reason":"stop"}]}`)
	})

	answer, err := svc.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "question"},
	}, driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
}

func TestGenerate_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid key","type":"auth"}}`)
	})

	_, err := svc.Generate(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "question"},
	}, driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestStream(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	tokens, errs := svc.Stream(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "question"},
	}, driven.GenerateOptions{})

	var received []string
	for token := range tokens {
		received = append(received, token)
	}
	assert.NoError(t, <-errs)
	assert.Equal(t, "Hello world", strings.Join(received, ""))
}

func TestStream_HTTPError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `rate limited`)
	})

	tokens, errs := svc.Stream(context.Background(), nil, driven.GenerateOptions{})

	for range tokens {
	}
	err := <-errs
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestStream_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"first\"}}]}\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	tokens, errs := svc.Stream(ctx, []domain.Message{
		{Role: domain.RoleUser, Content: "question"},
	}, driven.GenerateOptions{})

	first, ok := <-tokens
	require.True(t, ok)
	assert.Equal(t, "first", first)

	cancel()

	for range tokens {
	}
	assert.ErrorIs(t, <-errs, context.Canceled)
}
