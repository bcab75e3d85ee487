package store

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// StartTTLWorker launches a background sweeper that deletes conversations
// whose sessions have gone idle past ttl. Chat history never outlives the
// UI session. The worker stops when ctx is canceled.
func StartTTLWorker(ctx context.Context, repo Repository, ttl, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("TTL worker stopped")
				return
			case <-ticker.C:
				cleanupWithRetry(ctx, repo, ttl)
			}
		}
	}()
}

// cleanupWithRetry runs one sweep, retrying with exponential backoff when
// SQLite reports a concurrency conflict.
func cleanupWithRetry(ctx context.Context, repo Repository, ttl time.Duration) {
	const maxRetries = 3
	baseDelay := 100 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		deleted, err := repo.CleanupExpiredConversations(ctx, ttl)
		if err == nil {
			if deleted > 0 {
				slog.Info("Expired conversations removed", "count", deleted)
			}
			return
		}

		if isSQLiteConflictError(err) && i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("Conversation cleanup hit database conflict, retrying",
				"attempt", i+1,
				"delay", delay,
			)
			time.Sleep(delay)
			continue
		}

		if ctx.Err() != nil {
			return
		}
		slog.Error("Conversation cleanup failed", "error", err)
		return
	}
}

// isSQLiteConflictError reports whether err is a SQLITE_BUSY or
// "database is locked" concurrency error that warrants a retry.
func isSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY") ||
		strings.Contains(err.Error(), "database is locked")
}
