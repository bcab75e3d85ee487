package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/domain"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/identity"
	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/store"
	"github.com/coder/websocket"
)

func newWSServer(t *testing.T, responder Responder) (*httptest.Server, store.Repository) {
	t.Helper()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	h := NewWebSocketHandler(NewService(responder), repo)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(identity.NewContext(r.Context(), "anon-1", "tab-1"))
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, repo
}

func dialWS(t *testing.T, ctx context.Context, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "test done") })
	return conn
}

func sendWS(t *testing.T, ctx context.Context, conn *websocket.Conn, frame wsInbound) {
	t.Helper()

	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func readWS(t *testing.T, ctx context.Context, conn *websocket.Conn) wsOutbound {
	t.Helper()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var frame wsOutbound
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("unmarshal frame %q: %v", data, err)
	}
	return frame
}

func TestWebSocketSubmissionCycle(t *testing.T) {
	t.Parallel()

	responder := &stubResponder{
		output: "┏━\x1b[36m Response \x1b[0m━┓\n- **IPC Section 379:** theft\n┗━┛\n",
	}
	srv, repo := newWSServer(t, responder)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, srv)

	sendWS(t, ctx, conn, wsInbound{Type: "chat", Message: "What is the punishment for theft?"})

	first := readWS(t, ctx, conn)
	if first.Type != "message" || first.Message == nil || first.Message.Sender != domain.SenderUser {
		t.Fatalf("expected user message frame first, got %+v", first)
	}
	if first.Message.Text != "What is the punishment for theft?" {
		t.Errorf("user turn = %q", first.Message.Text)
	}

	var deltas strings.Builder
	var final wsOutbound
	for {
		frame := readWS(t, ctx, conn)
		if frame.Type == "delta" {
			deltas.WriteString(frame.Content)
			continue
		}
		final = frame
		break
	}

	if deltas.Len() == 0 {
		t.Error("expected at least one delta frame before the final message")
	}
	if strings.ContainsAny(deltas.String(), "\x1b┏┓┗┛┃━") {
		t.Errorf("delta stream not sanitized: %q", deltas.String())
	}

	if final.Type != "message" || final.Message == nil || final.Message.Sender != domain.SenderBot {
		t.Fatalf("expected bot message frame last, got %+v", final)
	}
	bot := final.Message.Text
	if strings.ContainsAny(bot, "\x1b┏┓┗┛┃━") {
		t.Errorf("bot turn not sanitized: %q", bot)
	}
	if !strings.Contains(bot, "IPC Section 379") {
		t.Errorf("bot turn lost content: %q", bot)
	}

	stored, err := repo.ListMessages(context.Background(), "anon-1", "tab-1")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(stored))
	}
	if stored[1].Text != bot {
		t.Errorf("stored bot turn %q does not match final frame %q", stored[1].Text, bot)
	}
}

func TestWebSocketEmptyMessageKeepsSessionAlive(t *testing.T) {
	t.Parallel()

	srv, repo := newWSServer(t, &stubResponder{output: "answer"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, srv)

	sendWS(t, ctx, conn, wsInbound{Type: "chat", Message: "   "})
	frame := readWS(t, ctx, conn)
	if frame.Type != "error" || frame.Error != "message is required" {
		t.Fatalf("expected error frame, got %+v", frame)
	}

	stored, err := repo.ListMessages(context.Background(), "anon-1", "tab-1")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("expected no messages appended, got %d", len(stored))
	}

	// The read loop keeps serving the connection after a rejected frame.
	sendWS(t, ctx, conn, wsInbound{Type: "chat", Message: "a real question"})
	if frame := readWS(t, ctx, conn); frame.Type != "message" {
		t.Errorf("expected message frame after recovery, got %+v", frame)
	}
}

func TestWebSocketRejectsUnknownFrameType(t *testing.T) {
	t.Parallel()

	srv, _ := newWSServer(t, &stubResponder{output: "answer"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, srv)

	sendWS(t, ctx, conn, wsInbound{Type: "ping"})
	frame := readWS(t, ctx, conn)
	if frame.Type != "error" || frame.Error != "invalid frame" {
		t.Fatalf("expected invalid frame error, got %+v", frame)
	}
}

func TestWebSocketAgentErrorStreamsDiagnostic(t *testing.T) {
	t.Parallel()

	srv, _ := newWSServer(t, &stubResponder{err: errors.New("model unavailable")})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn := dialWS(t, ctx, srv)

	sendWS(t, ctx, conn, wsInbound{Type: "chat", Message: "anything"})

	if frame := readWS(t, ctx, conn); frame.Type != "message" || frame.Message.Sender != domain.SenderUser {
		t.Fatalf("expected user message frame first, got %+v", frame)
	}

	var sawDiagnostic bool
	for {
		frame := readWS(t, ctx, conn)
		if frame.Type == "delta" {
			if strings.Contains(frame.Content, "An error occurred: model unavailable") {
				sawDiagnostic = true
			}
			continue
		}
		if frame.Type != "message" || frame.Message.Sender != domain.SenderBot {
			t.Fatalf("expected bot message frame last, got %+v", frame)
		}
		if !strings.Contains(frame.Message.Text, "An error occurred: model unavailable") {
			t.Errorf("bot turn missing diagnostic: %q", frame.Message.Text)
		}
		break
	}
	if !sawDiagnostic {
		t.Error("expected the diagnostic to be streamed as a delta")
	}
}

func TestWebSocketRejectsMissingIdentity(t *testing.T) {
	t.Parallel()

	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	h := NewWebSocketHandler(NewService(&stubResponder{}), repo)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
