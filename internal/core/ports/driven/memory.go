package driven

import "github.com/custodia-labs/ragchat/internal/core/domain"

// ConversationMemory keeps a bounded message window per conversation.
// Appending beyond the window evicts the oldest message (FIFO).
// Conversations are independent; appends to the same conversation are
// serialized by the implementation.
type ConversationMemory interface {
	// Append records a message for the conversation.
	Append(conversationID string, msg domain.Message)

	// History returns the conversation's messages, oldest first.
	History(conversationID string) []domain.Message
}
