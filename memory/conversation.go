package memory

import (
	"fmt"
	"reflect"

	"github.com/furixturi/deep-research-scratch/model"
)

// UnknownToolCallError is returned when a tool observation references a
// tool_call_id that no earlier assistant turn issued.
type UnknownToolCallError struct {
	ToolCallID string
}

func (e *UnknownToolCallError) Error() string {
	return fmt.Sprintf("tool call id %q was not issued by a preceding assistant message", e.ToolCallID)
}

// Conversation is the append-only message history of one run.
type Conversation struct {
	system   *model.Message
	messages []model.Message
	issued   map[string]struct{}
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{issued: map[string]struct{}{}}
}

// AddSystemPrompt sets the system message. It is always serialized first,
// regardless of when it was added; a second call replaces the first.
func (c *Conversation) AddSystemPrompt(text string) {
	c.system = &model.Message{Role: model.RoleSystem, Content: text}
}

// AddUserInput appends a user turn.
func (c *Conversation) AddUserInput(text string) {
	c.messages = append(c.messages, model.Message{Role: model.RoleUser, Content: text})
}

// AddModelStep appends the model's turn as a single assistant message. Tool
// calls are kept verbatim (id, name, raw arguments) so observations can be
// correlated later. A nil result is stored as an empty assistant turn.
func (c *Conversation) AddModelStep(r model.Result) {
	msg := model.Message{Role: model.RoleAssistant}

	switch res := r.(type) {
	case nil:
	case model.TextResult:
		msg.Content = res.Text
	case *model.TextResult:
		if res != nil {
			msg.Content = res.Text
		}
	case model.ToolCallResult:
		msg.Content = res.Content
		msg.ToolCalls = c.issue(res.ToolCalls)
	case *model.ToolCallResult:
		if res != nil {
			msg.Content = res.Content
			msg.ToolCalls = c.issue(res.ToolCalls)
		}
	default:
		msg.Content = stringify(res)
	}

	c.messages = append(c.messages, msg)
}

// AddToolStep appends the observation for the tool call toolCallID.
func (c *Conversation) AddToolStep(toolCallID, content string) error {
	if _, ok := c.issued[toolCallID]; !ok {
		return &UnknownToolCallError{ToolCallID: toolCallID}
	}
	c.messages = append(c.messages, model.Message{
		Role:       model.RoleTool,
		ToolCallID: toolCallID,
		Content:    content,
	})
	return nil
}

// Messages returns a deep copy of the history, system message first.
func (c *Conversation) Messages() []model.Message {
	out := make([]model.Message, 0, c.Len())
	if c.system != nil {
		out = append(out, c.system.Clone())
	}
	for _, m := range c.messages {
		out = append(out, m.Clone())
	}
	return out
}

// Len returns the number of serialized messages.
func (c *Conversation) Len() int {
	n := len(c.messages)
	if c.system != nil {
		n++
	}
	return n
}

func (c *Conversation) issue(calls []model.ToolCall) []model.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]model.ToolCall, len(calls))
	copy(out, calls)
	for _, tc := range out {
		c.issued[tc.ID] = struct{}{}
	}
	return out
}

// stringify renders an unrecognized result: its Content (or Text) string
// field when present, otherwise the whole value.
func stringify(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		for _, name := range []string{"Content", "Text"} {
			if f := rv.FieldByName(name); f.IsValid() && f.Kind() == reflect.String {
				return f.String()
			}
		}
	}
	return fmt.Sprintf("%v", v)
}
