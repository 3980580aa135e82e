package driving

import "context"

// ChatService answers questions using the ingested corpus as context.
type ChatService interface {
	// Answer streams the response to question token by token. Tokens
	// arrive in generation order on the first channel, which is closed
	// when the answer is complete. A failure is delivered on the error
	// channel and ends the stream. conversationID selects the bounded
	// conversation history; an empty ID disables memory for the call.
	Answer(ctx context.Context, conversationID, question string) (<-chan string, <-chan error)
}
