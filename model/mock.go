package model

import (
	"context"
	"fmt"
	"sync"
)

type mockStep struct {
	resp *TransportResponse
	err  error
}

// MockTransport is a scripted in-memory Transport useful for tests & examples.
// Responses are returned in the order they were queued; once the script is
// exhausted a canned echo of the last user turn is returned.
type MockTransport struct {
	mu       sync.Mutex
	script   []mockStep
	requests []TransportRequest
}

// NewMockTransport constructs a MockTransport with the given responses queued.
func NewMockTransport(responses ...*TransportResponse) *MockTransport {
	m := &MockTransport{}
	for _, r := range responses {
		m.Enqueue(r)
	}
	return m
}

// Enqueue appends a response to the script.
func (m *MockTransport) Enqueue(resp *TransportResponse) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockStep{resp: resp})
	return m
}

// EnqueueError appends a failing step to the script.
func (m *MockTransport) EnqueueError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, mockStep{err: err})
	return m
}

// Send implements Transport.
func (m *MockTransport) Send(ctx context.Context, req TransportRequest) (*TransportResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	req.Messages = cloneMessages(req.Messages)
	m.requests = append(m.requests, req)

	if len(m.script) == 0 {
		return &TransportResponse{Content: fmt.Sprintf("Mock response to: %s", lastUserContent(req.Messages)), FinishReason: "stop"}, nil
	}
	step := m.script[0]
	m.script = m.script[1:]
	return step.resp, step.err
}

// Requests returns a copy of every request received so far.
func (m *MockTransport) Requests() []TransportRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TransportRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Remaining reports how many scripted steps have not been consumed.
func (m *MockTransport) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}

func lastUserContent(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

func cloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}
