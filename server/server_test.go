package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deepresearch "github.com/furixturi/deep-research-scratch"
	"github.com/furixturi/deep-research-scratch/model"
)

type stubRunner struct {
	answer string
	err    error

	prompt string
	cfg    map[string]any
	ctx    context.Context
}

func (s *stubRunner) Run(ctx context.Context, prompt string, cfg map[string]any) (string, error) {
	s.ctx, s.prompt, s.cfg = ctx, prompt, cfg
	return s.answer, s.err
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	s := New(&stubRunner{})
	rec, body := do(t, s.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"status": "ok"}, body)
}

func TestRunAgent(t *testing.T) {
	runner := &stubRunner{answer: "Paris"}
	s := New(runner)

	rec, body := do(t, s.Handler(), http.MethodPost, "/run_agent",
		`{"prompt":"capital of France?","config":{"max_steps":3}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"response": "Paris"}, body)
	assert.Equal(t, "capital of France?", runner.prompt)
	assert.Equal(t, map[string]any{"max_steps": 3.0}, runner.cfg)
}

func TestRunAgent_WithoutConfig(t *testing.T) {
	runner := &stubRunner{answer: "ok"}
	rec, _ := do(t, New(runner).Handler(), http.MethodPost, "/run_agent", `{"prompt":"q"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, runner.cfg)
}

func TestRunAgent_RunError(t *testing.T) {
	runner := &stubRunner{answer: "Agent run failed: boom", err: errors.New("boom")}
	rec, body := do(t, New(runner).Handler(), http.MethodPost, "/run_agent", `{"prompt":"q"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "boom"}, body)
}

func TestRunAgent_InvalidConfig(t *testing.T) {
	dr, err := deepresearch.New(func(o *deepresearch.Options) {
		o.Transports = map[model.Provider]model.Transport{model.ProviderAOAI: model.NewMockTransport()}
	})
	require.NoError(t, err)

	for _, body := range []string{
		`{"prompt":"hi","config":{"max_steps":"abc"}}`,
		`{"prompt":"hi","config":{"provider":7}}`,
	} {
		rec, out := do(t, New(dr).Handler(), http.MethodPost, "/run_agent", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, out["error"], "invalid config", body)
	}
}

func TestRunAgent_InvalidConfigFromRunner(t *testing.T) {
	runner := &stubRunner{err: fmt.Errorf("%w: max_steps", deepresearch.ErrInvalidConfig)}
	rec, _ := do(t, New(runner).Handler(), http.MethodPost, "/run_agent", `{"prompt":"q"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunAgent_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"prompt":`},
		{name: "missing prompt", body: `{"config":{}}`},
		{name: "blank prompt", body: `{"prompt":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{}
			rec, body := do(t, New(runner).Handler(), http.MethodPost, "/run_agent", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, body["error"])
			assert.Empty(t, runner.prompt)
		})
	}
}

func TestRunAgent_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&stubRunner{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/run_agent", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRunAgent_Timeout(t *testing.T) {
	runner := &stubRunner{answer: "ok"}
	s := New(runner, func(o *Options) { o.RunTimeout = time.Minute })

	rec, _ := do(t, s.Handler(), http.MethodPost, "/run_agent", `{"prompt":"q"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := runner.ctx.Deadline()
	assert.True(t, ok)
}

func TestShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, New(&stubRunner{}).Shutdown(context.Background()))
}
