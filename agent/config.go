package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/furixturi/deep-research-scratch/model"
)

// DefaultMaxSteps is the step budget when none is configured.
const DefaultMaxSteps = 5

// AgentTypeSingle selects the ReAct loop.
const AgentTypeSingle = "single_agent"

// ErrUnknownAgentType is returned for an agent_type other than single_agent.
var ErrUnknownAgentType = errors.New("unknown agent type")

// RunConfig holds the per-run options.
type RunConfig struct {
	// MaxSteps bounds the number of model calls. Zero selects the agent's
	// default.
	MaxSteps int `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`
	// AgentID selects the per-agent model configuration layer.
	AgentID string `json:"agent_id,omitempty" yaml:"agent_id,omitempty"`
	// AgentType must be empty or single_agent.
	AgentType string `json:"agent_type,omitempty" yaml:"agent_type,omitempty"`
	// Override is the per-call model configuration layer.
	Override model.Config `json:"override,omitempty" yaml:"override,omitempty"`
}

// Merge returns c with every non-zero field of o applied on top.
func (c RunConfig) Merge(o RunConfig) RunConfig {
	if o.MaxSteps != 0 {
		c.MaxSteps = o.MaxSteps
	}
	if o.AgentID != "" {
		c.AgentID = o.AgentID
	}
	if o.AgentType != "" {
		c.AgentType = o.AgentType
	}
	c.Override = model.Merge(c.Override, o.Override)
	return c
}

// RunConfigFromMap reads the recognized keys of a loosely typed request
// config: max_steps, provider, model, agent_id and agent_type. Unknown keys
// are ignored.
func RunConfigFromMap(m map[string]any) (RunConfig, error) {
	var cfg RunConfig

	if v, ok := m["max_steps"]; ok && v != nil {
		n, err := toInt(v)
		if err != nil {
			return RunConfig{}, fmt.Errorf("max_steps: %w", err)
		}
		if n <= 0 {
			return RunConfig{}, fmt.Errorf("max_steps: must be positive, got %d", n)
		}
		cfg.MaxSteps = n
	}

	var err error
	if cfg.AgentID, err = stringField(m, "agent_id"); err != nil {
		return RunConfig{}, err
	}
	if cfg.AgentType, err = stringField(m, "agent_type"); err != nil {
		return RunConfig{}, err
	}
	provider, err := stringField(m, "provider")
	if err != nil {
		return RunConfig{}, err
	}
	cfg.Override.Provider = model.Provider(strings.ToLower(provider))
	if cfg.Override.Model, err = stringField(m, "model"); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// CheckAgentType validates an agent_type value, case-insensitively. Empty
// selects single_agent.
func CheckAgentType(agentType string) error {
	t := strings.ToLower(strings.TrimSpace(agentType))
	if t == "" || t == AgentTypeSingle {
		return nil
	}
	return fmt.Errorf("%w: %q (supported: %s)", ErrUnknownAgentType, agentType, AgentTypeSingle)
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, v)
	}
	return strings.TrimSpace(s), nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
