package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/furixturi/deep-research-scratch/model"
)

// ResponseBuilder provides a fluent helper for constructing scripted
// transport responses in tests.
// Example:
//
//	resp := NewResponseBuilder().ToolCall("a", "search", `{"query":"x"}`).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type ResponseBuilder struct {
	content      string
	toolCalls    []model.ToolCall
	finishReason string
	usage        *model.TokenUsage
}

// NewResponseBuilder creates an empty builder.
func NewResponseBuilder() *ResponseBuilder { return &ResponseBuilder{} }

// Text sets the textual content (chainable).
func (b *ResponseBuilder) Text(t string) *ResponseBuilder { b.content = t; return b }

// FinalAnswer sets the content to a final answer line (chainable).
func (b *ResponseBuilder) FinalAnswer(answer string) *ResponseBuilder {
	b.content = "Final Answer: " + answer
	return b
}

// ToolCall adds a tool call with raw argument text (chainable).
func (b *ResponseBuilder) ToolCall(id, name, rawArgs string) *ResponseBuilder {
	b.toolCalls = append(b.toolCalls, model.NewToolCall(id, name, rawArgs))
	return b
}

// ToolCallArgs adds a tool call whose arguments are JSON-encoded from args (chainable).
func (b *ResponseBuilder) ToolCallArgs(id, name string, args map[string]any) *ResponseBuilder {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(fmt.Sprintf("testutil: cannot encode tool arguments: %v", err))
	}
	return b.ToolCall(id, name, string(raw))
}

// FinishReason overrides the finish reason (chainable).
func (b *ResponseBuilder) FinishReason(r string) *ResponseBuilder { b.finishReason = r; return b }

// Usage sets token usage (chainable).
func (b *ResponseBuilder) Usage(prompt, completion int64) *ResponseBuilder {
	b.usage = &model.TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}
	return b
}

// Build constructs the response. The finish reason defaults to "tool_calls"
// when tool calls were added and "stop" otherwise.
func (b *ResponseBuilder) Build() *model.TransportResponse {
	reason := b.finishReason
	if reason == "" {
		reason = "stop"
		if len(b.toolCalls) > 0 {
			reason = "tool_calls"
		}
	}
	return &model.TransportResponse{
		Content:      b.content,
		ToolCalls:    append([]model.ToolCall(nil), b.toolCalls...),
		FinishReason: reason,
		Usage:        b.usage,
	}
}
