// Package domain contains core domain types for the law assistant.
package domain

import (
	"time"
)

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is a single turn in a conversation. Immutable once created.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the ordered in-session record of user and bot turns for
// one (anonymous user, tab session) pair. Append-only: messages are never
// reordered, mutated, or removed while the session lives.
type Conversation struct {
	UserID    string        `json:"user_id"`
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg ChatMessage) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.CreatedAt
}

// Len returns the number of turns recorded so far.
func (c *Conversation) Len() int {
	return len(c.Messages)
}
