// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/domain"
)

// Repository defines persistence for session-scoped conversations.
// Conversations are append-only while the session lives and are removed
// wholesale once the session expires.
type Repository interface {
	// AppendMessage adds a message to the end of the conversation for
	// (userID, sessionID), creating the conversation on first use.
	AppendMessage(ctx context.Context, userID, sessionID string, msg domain.ChatMessage) error

	// ListMessages returns the conversation's messages in insertion order.
	ListMessages(ctx context.Context, userID, sessionID string) ([]domain.ChatMessage, error)

	// CleanupExpiredConversations deletes conversations idle longer than
	// ttl, returning the number of conversations removed.
	CleanupExpiredConversations(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
