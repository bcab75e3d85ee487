// Package tools implements the callable lookup capabilities the agent may
// invoke mid-response: encyclopedia lookup and web search.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Spec describes a tool to the model in function-calling form.
type Spec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Tool is a callable capability the agent may invoke while answering.
// Call returns human-readable text to feed back into the model.
type Tool interface {
	Spec() Spec
	Call(ctx context.Context, arguments json.RawMessage) (string, error)
}

const (
	defaultHTTPTimeout = 15 * time.Second

	// maxResultRunes caps tool output so a verbose article cannot blow
	// up the model context.
	maxResultRunes = 4000
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxResultRunes {
		return s
	}
	return string(runes[:maxResultRunes]) + "\n...(truncated)"
}

// queryArgs is the shared argument shape for both lookup tools.
type queryArgs struct {
	Query string `json:"query"`
}

func parseQueryArgs(raw json.RawMessage) (string, error) {
	var args queryArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("parse tool arguments: %w", err)
	}
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return "", errors.New("tool arguments missing query")
	}
	return query, nil
}

func querySpecParameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The search query",
			},
		},
		"required": []string{"query"},
	}
}
