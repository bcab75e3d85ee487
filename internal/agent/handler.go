package agent

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/api"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/config"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/domain"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/identity"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/sanitize"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/store"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// maxRequestBodySize is the maximum allowed chat request body (64KB).
const maxRequestBodySize = 64 << 10

// Handler wires the chat endpoints: one submission cycle per request,
// no concurrency within a session.
type Handler struct {
	agent       *Service
	repo        store.Repository
	rateLimiter *RateLimiter
}

// NewHandler creates the chat handler.
func NewHandler(agentService *Service, repo store.Repository, cfg *config.Config) *Handler {
	return &Handler{
		agent:       agentService,
		repo:        repo,
		rateLimiter: NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration),
	}
}

// RateLimiter implements a per-user sliding-window rate limiter. The key
// is userID only, so clients cannot bypass throttling by rotating
// session IDs.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

// NewRateLimiter creates a rate limiter and starts its eviction goroutine.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	rl.startEviction()
	return rl
}

// Allow checks if a request is allowed for the given key.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	var recent []time.Time
	for _, t := range r.requests[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.requests[key] = recent
		return false
	}

	r.requests[key] = append(recent, now)
	return true
}

// startEviction periodically drops expired keys so the requests map
// cannot grow without bound.
func (r *RateLimiter) startEviction() {
	go func() {
		ticker := time.NewTicker(r.window)
		defer ticker.Stop()
		for range ticker.C {
			r.mu.Lock()
			cutoff := time.Now().Add(-r.window)
			for key, times := range r.requests {
				var fresh []time.Time
				for _, t := range times {
					if t.After(cutoff) {
						fresh = append(fresh, t)
					}
				}
				if len(fresh) == 0 {
					delete(r.requests, key)
				} else {
					r.requests[key] = fresh
				}
			}
			r.mu.Unlock()
		}
	}()
}

// HandleChat handles POST /api/chat: one full submission cycle. The user
// turn is persisted before the agent is invoked, the captured output is
// sanitized, and the bot turn is appended. Success or not, the cycle
// completes with a normal bot message.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if !h.rateLimiter.Allow(userID) {
		api.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}

	reqID := chiMiddleware.GetReqID(r.Context())
	slog.Info("Chat request",
		"user_id", userID,
		"session_id", sessionID,
		"request_id", reqID,
		"message_length", len(req.Message),
	)

	now := time.Now().UTC()
	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderUser,
		Text:      req.Message,
		CreatedAt: now,
	}
	if err := h.repo.AppendMessage(r.Context(), userID, sessionID, userMsg); err != nil {
		slog.Error("Failed to persist user message", "error", err, "user_id", userID)
		api.Error(w, http.StatusInternalServerError, "failed to record message")
		return
	}

	raw := h.agent.Ask(r.Context(), req.Message)
	botMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderBot,
		Text:      sanitize.Clean(raw),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.AppendMessage(r.Context(), userID, sessionID, botMsg); err != nil {
		slog.Error("Failed to persist bot message", "error", err, "user_id", userID)
		api.Error(w, http.StatusInternalServerError, "failed to record message")
		return
	}

	api.JSON(w, http.StatusOK, ChatResponse{Messages: []domain.ChatMessage{userMsg, botMsg}})
}

// HandleConversation handles GET /api/conversation: the caller's
// session-scoped conversation with its ordered message list.
func (h *Handler) HandleConversation(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	if userID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.repo.ListMessages(r.Context(), userID, sessionID)
	if err != nil {
		slog.Error("Failed to list conversation", "error", err, "user_id", userID)
		api.Error(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	conv := domain.Conversation{
		UserID:    userID,
		SessionID: sessionID,
		Messages:  []domain.ChatMessage{},
	}
	for _, msg := range messages {
		conv.Append(msg)
	}

	api.JSON(w, http.StatusOK, conv)
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/chat", h.HandleChat)
	r.Get("/api/conversation", h.HandleConversation)
}
