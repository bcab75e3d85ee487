package agent

import (
	"context"
	"io"
)

// Responder produces the agent's answer to a query, streaming everything
// it has to say into w as it goes. Implementations must not retain w
// after returning. The agent is treated as opaque: callers do not
// inspect which tools were used beyond whatever text it writes.
type Responder interface {
	Respond(ctx context.Context, query string, w io.Writer) error
}

// Ensure GroqResponder implements Responder.
var _ Responder = (*GroqResponder)(nil)
