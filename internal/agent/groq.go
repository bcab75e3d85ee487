package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"github.com/JEETMANISHBOBDE/AI-Powered-Legal-Chatbot/internal/tools"
)

// GroqResponder answers queries with a Groq-hosted model through the
// OpenAI-compatible Chat Completions API, letting the model invoke the
// configured lookup tools autonomously before it settles on an answer.
type GroqResponder struct {
	cfg    Config
	client openai.Client
	tools  []tools.Tool
}

// NewGroqResponder creates a responder from the static agent
// configuration and tool set.
func NewGroqResponder(cfg Config, toolset []tools.Tool) *GroqResponder {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	)
	return &GroqResponder{cfg: cfg, client: client, tools: toolset}
}

// toolCall is the provider-independent shape of one requested tool call.
type toolCall struct {
	id        string
	name      string
	arguments string
}

// Respond implements Responder. It runs a bounded tool-call loop: ask the
// model, execute whatever tool calls it returns, feed the outputs back,
// and stop when the model produces a plain assistant message. The
// transcript of the exchange is written to w as it happens.
func (g *GroqResponder) Respond(ctx context.Context, query string, w io.Writer) error {
	p := newPrinter(w)

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(strings.Join(g.cfg.Instructions, "\n")),
		openai.UserMessage(query),
	}
	specs := g.buildTools()

	for round := 0; round < g.cfg.MaxToolRounds; round++ {
		params := openai.ChatCompletionNewParams{
			Model:    shared.ChatModel(g.cfg.ModelID),
			Messages: msgs,
		}
		// Withhold the tool specs on the last round so the model is
		// forced to answer instead of requesting yet another lookup.
		if len(specs) > 0 && round < g.cfg.MaxToolRounds-1 {
			params.Tools = specs
			params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
				OfAuto: param.NewOpt("auto"),
			}
		}

		var (
			content string
			calls   []toolCall
			err     error
		)
		if g.cfg.Streaming {
			content, calls, err = g.stream(ctx, params, p)
		} else {
			content, calls, err = g.complete(ctx, params)
		}
		if err != nil {
			return err
		}

		if len(calls) == 0 {
			if !g.cfg.Streaming {
				p.panelOpen("Response")
				p.text(content)
				p.panelClose()
			}
			return nil
		}

		msgs = append(msgs, assistantMessageWithCalls(content, calls))
		for _, tc := range calls {
			if g.cfg.ShowToolCalls {
				p.toolCall(tc.name, tc.arguments)
			}
			msgs = append(msgs, openai.ToolMessage(g.runTool(ctx, tc), tc.id))
		}
	}

	return fmt.Errorf("no final answer after %d tool rounds", g.cfg.MaxToolRounds)
}

// complete performs a single non-streaming completions call.
func (g *GroqResponder) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, []toolCall, error) {
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", nil, err
	}
	if len(resp.Choices) == 0 {
		return "", nil, errors.New("model returned no choices")
	}

	choice := resp.Choices[0]
	var calls []toolCall
	for _, tc := range choice.Message.ToolCalls {
		if strings.TrimSpace(tc.Function.Name) == "" {
			continue
		}
		calls = append(calls, toolCall{
			id:        strings.TrimSpace(tc.ID),
			name:      tc.Function.Name,
			arguments: tc.Function.Arguments,
		})
	}
	return choice.Message.Content, calls, nil
}

// stream performs a streaming completions call, printing text deltas as
// they arrive and aggregating any tool-call deltas.
func (g *GroqResponder) stream(ctx context.Context, params openai.ChatCompletionNewParams, p *printer) (string, []toolCall, error) {
	s := g.client.Chat.Completions.NewStreaming(ctx, params)
	defer s.Close()

	var full strings.Builder
	deltaCalls := make(map[int64]*openai.ChatCompletionChunkChoiceDeltaToolCall)

	for s.Next() {
		chunk := s.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			if full.Len() == 0 {
				p.panelOpen("Response")
			}
			p.text(delta.Content)
			full.WriteString(delta.Content)
		}
		collectToolCallDeltas(deltaCalls, delta.ToolCalls)
	}
	if err := s.Err(); err != nil {
		return "", nil, err
	}
	if full.Len() > 0 {
		p.panelClose()
	}

	return full.String(), finalizeToolCallDeltas(deltaCalls), nil
}

// collectToolCallDeltas folds incremental tool-call fragments into the
// accumulator, keyed by their stream index.
func collectToolCallDeltas(acc map[int64]*openai.ChatCompletionChunkChoiceDeltaToolCall, calls []openai.ChatCompletionChunkChoiceDeltaToolCall) {
	for _, tc := range calls {
		target, ok := acc[tc.Index]
		if !ok {
			target = &openai.ChatCompletionChunkChoiceDeltaToolCall{}
			acc[tc.Index] = target
		}
		if tc.ID != "" {
			target.ID = tc.ID
		}
		target.Function.Name += tc.Function.Name
		target.Function.Arguments += tc.Function.Arguments
	}
}

// finalizeToolCallDeltas converts the aggregated fragments into complete
// tool calls, in stream order.
func finalizeToolCallDeltas(acc map[int64]*openai.ChatCompletionChunkChoiceDeltaToolCall) []toolCall {
	if len(acc) == 0 {
		return nil
	}
	indices := make([]int64, 0, len(acc))
	for idx := range acc {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	calls := make([]toolCall, 0, len(indices))
	for _, idx := range indices {
		tc := acc[idx]
		if strings.TrimSpace(tc.Function.Name) == "" {
			continue
		}
		calls = append(calls, toolCall{
			id:        strings.TrimSpace(tc.ID),
			name:      tc.Function.Name,
			arguments: tc.Function.Arguments,
		})
	}
	return calls
}

// assistantMessageWithCalls builds the assistant turn that carries the
// model's requested tool calls back into the conversation.
func assistantMessageWithCalls(content string, calls []toolCall) openai.ChatCompletionMessageParamUnion {
	msg := openai.AssistantMessage(content)
	toolCalls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(calls))
	for _, tc := range calls {
		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
			ID:   tc.id,
			Type: constant.Function("function"),
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.name,
				Arguments: tc.arguments,
			},
		})
	}
	msg.OfAssistant.ToolCalls = toolCalls
	return msg
}

// runTool executes one requested tool call. Tool failures are reported
// back to the model as tool output rather than aborting the exchange.
func (g *GroqResponder) runTool(ctx context.Context, tc toolCall) string {
	for _, tool := range g.tools {
		if tool.Spec().Name != tc.name {
			continue
		}
		out, err := tool.Call(ctx, json.RawMessage(tc.arguments))
		if err != nil {
			slog.Warn("tool call failed", "tool", tc.name, "error", err)
			return fmt.Sprintf("tool %s failed: %v", tc.name, err)
		}
		return out
	}
	slog.Warn("model requested unknown tool", "tool", tc.name)
	return fmt.Sprintf("unknown tool: %s", tc.name)
}

// buildTools converts the tool set into Chat Completions function specs.
func (g *GroqResponder) buildTools() []openai.ChatCompletionToolParam {
	specs := make([]openai.ChatCompletionToolParam, 0, len(g.tools))
	for _, tool := range g.tools {
		spec := tool.Spec()
		specs = append(specs, openai.ChatCompletionToolParam{
			Type: constant.Function("function"),
			Function: openai.FunctionDefinitionParam{
				Name:        spec.Name,
				Description: param.NewOpt(spec.Description),
				Parameters:  spec.Parameters,
			},
		})
	}
	return specs
}
