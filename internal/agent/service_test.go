package agent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// stubResponder writes canned output and optionally fails afterwards.
type stubResponder struct {
	output string
	err    error
}

func (s *stubResponder) Respond(_ context.Context, _ string, w io.Writer) error {
	if s.output != "" {
		if _, err := io.WriteString(w, s.output); err != nil {
			return err
		}
	}
	return s.err
}

func TestAskReturnsCapturedOutput(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubResponder{output: "- **IPC Section 379:** theft\n"})
	got := svc.Ask(context.Background(), "theft?")

	if got != "- **IPC Section 379:** theft\n" {
		t.Errorf("Ask returned %q", got)
	}
}

func TestAskConvertsErrorToDiagnostic(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubResponder{err: errors.New("timeout")})
	got := svc.Ask(context.Background(), "anything")

	if !strings.Contains(got, "An error occurred: timeout") {
		t.Errorf("expected diagnostic in output, got %q", got)
	}
}

func TestAskKeepsPartialOutputBeforeError(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubResponder{output: "partial answer ", err: errors.New("connection reset")})
	got := svc.Ask(context.Background(), "anything")

	if !strings.HasPrefix(got, "partial answer ") {
		t.Errorf("expected partial output preserved, got %q", got)
	}
	if !strings.Contains(got, "An error occurred: connection reset") {
		t.Errorf("expected diagnostic appended, got %q", got)
	}
}

func TestAskStreamMirrorsTranscript(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubResponder{output: "streamed text"})
	var live bytes.Buffer

	got := svc.AskStream(context.Background(), "anything", &live)

	if got != "streamed text" {
		t.Errorf("captured transcript = %q", got)
	}
	if live.String() != "streamed text" {
		t.Errorf("live mirror = %q", live.String())
	}
}

func TestAskStreamMirrorsDiagnosticOnError(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubResponder{err: errors.New("model unavailable")})
	var live bytes.Buffer

	got := svc.AskStream(context.Background(), "anything", &live)

	if got != live.String() {
		t.Errorf("capture and mirror diverged: %q vs %q", got, live.String())
	}
	if !strings.Contains(live.String(), "An error occurred: model unavailable") {
		t.Errorf("expected diagnostic mirrored, got %q", live.String())
	}
}
