// Package memory provides an in-process, bounded per-conversation
// message history. Each conversation keeps at most Window messages;
// appending beyond that evicts the oldest first.
package memory

import (
	"hash/fnv"
	"sync"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ConversationMemory = (*Store)(nil)

// DefaultWindow is the default number of messages kept per conversation.
const DefaultWindow = 10

// shardCount is the number of lock shards. Appends to the same
// conversation serialize on one shard; unrelated conversations mostly
// proceed in parallel.
const shardCount = 16

type shard struct {
	mu            sync.RWMutex
	conversations map[string][]domain.Message
}

// Store is a sharded, bounded conversation history keyed by
// conversation ID. Lifecycle is tied to the process; nothing is
// persisted.
type Store struct {
	window int
	shards [shardCount]*shard
}

// Option configures the store.
type Option func(*Store)

// WithWindow sets the per-conversation message window.
func WithWindow(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.window = n
		}
	}
}

// New creates a new conversation memory store.
func New(opts ...Option) *Store {
	s := &Store{window: DefaultWindow}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{conversations: make(map[string][]domain.Message)}
	}
	return s
}

// Append records a message for the conversation, evicting the oldest
// message if the window is full.
func (s *Store) Append(conversationID string, msg domain.Message) {
	sh := s.shardFor(conversationID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	history := append(sh.conversations[conversationID], msg)
	if len(history) > s.window {
		history = history[len(history)-s.window:]
	}
	sh.conversations[conversationID] = history
}

// History returns a copy of the conversation's messages, oldest first.
func (s *Store) History(conversationID string) []domain.Message {
	sh := s.shardFor(conversationID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	history := sh.conversations[conversationID]
	if len(history) == 0 {
		return nil
	}
	out := make([]domain.Message, len(history))
	copy(out, history)
	return out
}

// shardFor picks the shard for a conversation ID.
func (s *Store) shardFor(conversationID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(conversationID))
	return s.shards[h.Sum32()%shardCount]
}
