package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure ChatEngine implements the interface.
var _ driving.ChatService = (*ChatEngine)(nil)

// ChatEngine answers questions by retrieving relevant corpus segments,
// assembling an augmented prompt and streaming the generated response.
type ChatEngine struct {
	retriever *Retriever
	prompts   *PromptBuilder
	memory    driven.ConversationMemory
	generator driven.GenerationService
	genOpts   driven.GenerateOptions
}

// ChatEngineOption customises chat behaviour.
type ChatEngineOption func(*ChatEngine)

// WithGenerateOptions sets the sampling options passed to the
// generation service.
func WithGenerateOptions(opts driven.GenerateOptions) ChatEngineOption {
	return func(e *ChatEngine) {
		e.genOpts = opts
	}
}

// NewChatEngine creates a chat service.
func NewChatEngine(
	retriever *Retriever,
	prompts *PromptBuilder,
	memory driven.ConversationMemory,
	generator driven.GenerationService,
	opts ...ChatEngineOption,
) *ChatEngine {
	e := &ChatEngine{
		retriever: retriever,
		prompts:   prompts,
		memory:    memory,
		generator: generator,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Answer streams the response to question token by token. The user turn
// is recorded in memory as soon as generation starts; the assistant turn
// is recorded only when the stream completes without error, so an
// aborted answer never enters the history.
func (e *ChatEngine) Answer(ctx context.Context, conversationID, question string) (<-chan string, <-chan error) {
	out := make(chan string)
	errs := make(chan error, 1)

	question = strings.TrimSpace(question)
	if question == "" {
		close(out)
		errs <- fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
		close(errs)
		return out, errs
	}

	var history []domain.Message
	if conversationID != "" {
		history = e.memory.History(conversationID)
	}

	items, err := e.retriever.Retrieve(ctx, question)
	if err != nil {
		close(out)
		errs <- err
		close(errs)
		return out, errs
	}

	messages := e.prompts.Build(question, items, history)
	logger.Debug("Answering with %d retrieved items, %d history messages", len(items), len(history))

	if conversationID != "" {
		e.memory.Append(conversationID, domain.Message{Role: domain.RoleUser, Content: question})
	}

	tokens, genErrs := e.generator.Stream(ctx, messages, e.genOpts)

	go func() {
		defer close(out)
		defer close(errs)

		var answer strings.Builder
		for token := range tokens {
			answer.WriteString(token)
			select {
			case out <- token:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}

		if err := <-genErrs; err != nil {
			errs <- err
			return
		}

		if conversationID != "" {
			e.memory.Append(conversationID, domain.Message{
				Role:    domain.RoleAssistant,
				Content: answer.String(),
			})
		}
	}()

	return out, errs
}
