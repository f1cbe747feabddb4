package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furixturi/deep-research-scratch/model"
)

func TestRunConfigFromMap(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]any
		want    RunConfig
		wantErr bool
	}{
		{name: "empty", in: map[string]any{}, want: RunConfig{}},
		{
			name: "all keys",
			in: map[string]any{
				"max_steps":  3.0,
				"provider":   "OpenAI",
				"model":      "o3",
				"agent_id":   "search_agent",
				"agent_type": "single_agent",
				"ignored":    true,
			},
			want: RunConfig{
				MaxSteps:  3,
				AgentID:   "search_agent",
				AgentType: "single_agent",
				Override:  model.Config{Provider: model.ProviderOpenAI, Model: "o3"},
			},
		},
		{name: "int max_steps", in: map[string]any{"max_steps": 4}, want: RunConfig{MaxSteps: 4}},
		{name: "string max_steps", in: map[string]any{"max_steps": "2"}, want: RunConfig{MaxSteps: 2}},
		{name: "json number", in: map[string]any{"max_steps": json.Number("7")}, want: RunConfig{MaxSteps: 7}},
		{name: "fractional", in: map[string]any{"max_steps": 1.5}, wantErr: true},
		{name: "zero", in: map[string]any{"max_steps": 0}, wantErr: true},
		{name: "bad type", in: map[string]any{"max_steps": true}, wantErr: true},
		{name: "non-string model", in: map[string]any{"model": 1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RunConfigFromMap(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunConfig_Merge(t *testing.T) {
	base := RunConfig{MaxSteps: 5, AgentID: "single_agent", Override: model.Config{Provider: model.ProviderAOAI}}
	got := base.Merge(RunConfig{MaxSteps: 2, Override: model.Config{Model: "o3"}})

	assert.Equal(t, RunConfig{
		MaxSteps: 2,
		AgentID:  "single_agent",
		Override: model.Config{Provider: model.ProviderAOAI, Model: "o3"},
	}, got)
}

func TestCheckAgentType(t *testing.T) {
	assert.NoError(t, CheckAgentType(""))
	assert.NoError(t, CheckAgentType(" SINGLE_AGENT "))
	assert.ErrorIs(t, CheckAgentType("planner_agent"), ErrUnknownAgentType)
}

func TestState(t *testing.T) {
	assert.Equal(t, "DONE", StateDone.String())
	assert.Equal(t, "TOOL_DISPATCH", StateToolDispatch.String())
	assert.Equal(t, "UNKNOWN", State(99).String())

	for _, s := range []State{StateDone, StateExhausted, StateInconclusive, StateFailed} {
		assert.True(t, s.Terminal(), s.String())
	}
	for _, s := range []State{StateInit, StateStep, StateToolDispatch} {
		assert.False(t, s.Terminal(), s.String())
	}

	raw, err := json.Marshal(Outcome{State: StateExhausted})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"state":"EXHAUSTED"`)
}
