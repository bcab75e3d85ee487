package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/domain"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/identity"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/sanitize"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/store"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// WebSocketHandler streams chat over a WebSocket: the client sends one
// submission at a time and receives live transcript deltas followed by
// the final sanitized bot turn. The read loop is sequential, so a
// session never has concurrent submissions in flight.
type WebSocketHandler struct {
	agent *Service
	repo  store.Repository
}

// NewWebSocketHandler creates the streaming chat handler.
func NewWebSocketHandler(agentService *Service, repo store.Repository) *WebSocketHandler {
	return &WebSocketHandler{agent: agentService, repo: repo}
}

// wsInbound is a client frame.
type wsInbound struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// wsOutbound is a server frame. Type is "delta" while the agent is
// writing, "message" for a finalized turn, or "error".
type wsOutbound struct {
	Type    string              `json:"type"`
	Content string              `json:"content,omitempty"`
	Message *domain.ChatMessage `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// wsDeltaWriter forwards raw transcript chunks to the client as delta
// frames. Chunk boundaries may split an escape sequence, so each chunk
// is cleaned on a best-effort basis; the final message frame carries the
// canonical sanitized text and replaces the streamed rendering.
type wsDeltaWriter struct {
	ctx  context.Context
	conn *websocket.Conn
}

func (w *wsDeltaWriter) Write(p []byte) (int, error) {
	if w.ctx.Err() != nil {
		return 0, w.ctx.Err()
	}
	frame := wsOutbound{Type: "delta", Content: sanitize.Clean(string(p))}
	if err := writeWS(w.ctx, w.conn, frame); err != nil {
		slog.Debug("WebSocket delta write failed", "error", err)
		return 0, err
	}
	return len(p), nil
}

func writeWS(ctx context.Context, conn *websocket.Conn, frame wsOutbound) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := conn.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	slog.Info("Chat stream connected", "user_id", userID, "session_id", sessionID)
	ctx := r.Context()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			slog.Info("Chat stream disconnected", "user_id", userID, "session_id", sessionID)
			return
		}

		var in wsInbound
		if err := json.Unmarshal(data, &in); err != nil || in.Type != "chat" {
			_ = writeWS(ctx, conn, wsOutbound{Type: "error", Error: "invalid frame"})
			continue
		}
		if strings.TrimSpace(in.Message) == "" {
			_ = writeWS(ctx, conn, wsOutbound{Type: "error", Error: "message is required"})
			continue
		}

		if err := h.submit(ctx, conn, userID, sessionID, in.Message); err != nil {
			slog.Warn("Chat stream submission failed", "error", err, "user_id", userID)
			return
		}
	}
}

// submit runs one full submission cycle over the socket.
func (h *WebSocketHandler) submit(ctx context.Context, conn *websocket.Conn, userID, sessionID, message string) error {
	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderUser,
		Text:      message,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.AppendMessage(ctx, userID, sessionID, userMsg); err != nil {
		return writeWS(ctx, conn, wsOutbound{Type: "error", Error: "failed to record message"})
	}
	if err := writeWS(ctx, conn, wsOutbound{Type: "message", Message: &userMsg}); err != nil {
		return err
	}

	raw := h.agent.AskStream(ctx, message, &wsDeltaWriter{ctx: ctx, conn: conn})
	botMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    domain.SenderBot,
		Text:      sanitize.Clean(raw),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.AppendMessage(ctx, userID, sessionID, botMsg); err != nil {
		return writeWS(ctx, conn, wsOutbound{Type: "error", Error: "failed to record message"})
	}
	return writeWS(ctx, conn, wsOutbound{Type: "message", Message: &botMsg})
}
