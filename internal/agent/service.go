package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Service is the invocation wrapper around the configured Responder. It
// owns the capture discipline: the agent streams into an output channel
// scoped to the call, and callers get the captured transcript back as
// one string.
type Service struct {
	responder Responder
}

// NewService creates a service around the given responder.
func NewService(responder Responder) *Service {
	return &Service{responder: responder}
}

// Ask forwards query to the agent and returns everything it wrote to its
// output channel during the call. Errors never escape: a failed
// invocation appends a diagnostic line to the captured text instead, so
// callers always receive a string. The underlying error is logged with
// its kind intact before being flattened for display.
func (s *Service) Ask(ctx context.Context, query string) string {
	return s.AskStream(ctx, query, io.Discard)
}

// AskStream behaves like Ask but additionally mirrors the raw transcript
// to live as it is produced, for streaming transports.
func (s *Service) AskStream(ctx context.Context, query string, live io.Writer) string {
	var buf bytes.Buffer
	w := io.MultiWriter(&buf, live)

	if err := s.responder.Respond(ctx, query, w); err != nil {
		slog.Error("agent invocation failed", "error", err, "query_length", len(query))
		fmt.Fprintf(w, "An error occurred: %v\n", err)
	}
	return buf.String()
}
