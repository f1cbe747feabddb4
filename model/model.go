package model

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleSystem is the instruction turn placed ahead of the dialogue.
	RoleSystem Role = "system"
	// RoleUser is a human (or caller) supplied turn.
	RoleUser Role = "user"
	// RoleAssistant is a model produced turn.
	RoleAssistant Role = "assistant"
	// RoleTool carries the observation of a single tool invocation.
	RoleTool Role = "tool"
)

// ToolCall represents a function call request surfaced by a model provider.
// Unified across vendors so downstream logic does not need per-provider branching.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction describes the concrete function target of a tool call.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // provider encoded payload, usually JSON text
}

// NewToolCall builds a function tool call.
func NewToolCall(id, name, arguments string) ToolCall {
	return ToolCall{
		ID:   id,
		Type: "function",
		Function: ToolCallFunction{
			Name:      name,
			Arguments: arguments,
		},
	}
}

// Message is one turn in a conversation.
//
// Content is empty for assistant turns that only carry ToolCalls. ToolCallID
// is set on tool turns and references a ToolCall emitted by an earlier
// assistant turn of the same conversation.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	if m.ToolCalls != nil {
		calls := make([]ToolCall, len(m.ToolCalls))
		copy(calls, m.ToolCalls)
		m.ToolCalls = calls
	}
	return m
}

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Result is the normalized outcome of a model call: either a TextResult or a
// ToolCallResult. The set is closed.
type Result interface{ isResult() }

// TextResult is a plain completion without tool calls.
type TextResult struct {
	Text string
}

func (TextResult) isResult() {}

// ToolCallResult is returned when the model chose to call one or more tools.
// Content holds any text the model produced alongside the calls.
type ToolCallResult struct {
	Content   string
	ToolCalls []ToolCall
}

func (ToolCallResult) isResult() {}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}
