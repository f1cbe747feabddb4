package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/furixturi/deep-research-scratch/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolUseMessage = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-20250514",
  "content": [
    {"type": "text", "text": "Let me search."},
    {"type": "tool_use", "id": "toolu_1", "name": "search", "input": {"query": "x"}}
  ],
  "stop_reason": "tool_use",
  "stop_sequence": null,
  "usage": {"input_tokens": 12, "output_tokens": 8}
}`

func TestTransport_Send(t *testing.T) {
	var (
		path   string
		header http.Header
		body   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		path = r.URL.Path
		header = r.Header.Clone()
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(toolUseMessage))
	}))
	defer srv.Close()

	tr := NewTransport(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL + "/"
	})

	resp, err := tr.Send(context.Background(), model.TransportRequest{
		Model: "claude-sonnet-4-20250514",
		Messages: []model.Message{
			{Role: model.RoleSystem, Content: "sys"},
			{Role: model.RoleUser, Content: "q"},
			{Role: model.RoleAssistant, ToolCalls: []model.ToolCall{
				model.NewToolCall("a", "search", `{"query":"x"}`),
				model.NewToolCall("b", "code", `not json`),
			}},
			{Role: model.RoleTool, ToolCallID: "a", Content: "r1"},
			{Role: model.RoleTool, ToolCallID: "b", Content: "r2"},
		},
		Tools: []model.ToolDefinition{{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        "search",
				Description: "Search the web for information",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{"query": map[string]any{"type": "string"}},
					"required":   []any{"query"},
				},
			},
		}},
		ToolChoice:  model.ToolChoiceAuto,
		Temperature: model.Temperature,
		TopP:        model.TopP,
		TokenBudget: model.BudgetFor("claude-sonnet-4-20250514"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, "/v1/messages"))
	assert.Equal(t, "test-key", header.Get("X-Api-Key"))
	assert.EqualValues(t, model.ClassicTokenLimit, body["max_tokens"])
	assert.NotContains(t, body, "max_completion_tokens")
	assert.EqualValues(t, model.Temperature, body["temperature"])
	assert.NotContains(t, body, "top_p")

	system, ok := body["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)

	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	// user, assistant(tool_use x2), user(tool_result x2)
	require.Len(t, msgs, 3)
	results := msgs[2].(map[string]any)
	assert.Equal(t, "user", results["role"])
	assert.Len(t, results["content"], 2)

	choice, ok := body["tool_choice"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "auto", choice["type"])

	assert.Equal(t, "Let me search.", resp.Content)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "toolu_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "search", resp.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"query":"x"}`, resp.ToolCalls[0].Function.Arguments)
	assert.Equal(t, "tool_use", resp.FinishReason)
	assert.EqualValues(t, 20, resp.Usage.TotalTokens)
}

func TestToolInput(t *testing.T) {
	assert.Equal(t, map[string]any{"query": "x"}, toolInput(`{"query":"x"}`))
	assert.Equal(t, map[string]any{"input": "plain"}, toolInput("plain"))
	assert.Equal(t, map[string]any{}, toolInput(""))
}
