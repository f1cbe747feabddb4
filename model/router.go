package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/furixturi/deep-research-scratch/logging"
)

// Fixed sampling and budget policy applied to every call.
const (
	Temperature       = 1.0
	TopP              = 1.0
	NextGenTokenLimit = 10000
	ClassicTokenLimit = 4096
	ToolChoiceAuto    = "auto"
)

// ErrNoTransport is returned when a provider passes validation but no
// Transport was wired for it.
var ErrNoTransport = errors.New("no transport registered for provider")

// TokenParam names the request field carrying the output token budget.
type TokenParam string

const (
	// TokenParamMaxTokens is used by classic chat models.
	TokenParamMaxTokens TokenParam = "max_tokens"
	// TokenParamMaxCompletionTokens is used by reasoning models.
	TokenParamMaxCompletionTokens TokenParam = "max_completion_tokens"
)

// TokenBudget is the output token limit together with the parameter name the
// provider expects it under. The limit is enforced identically either way.
type TokenBudget struct {
	Param TokenParam
	Limit int64
}

// IsNextGenModel reports whether name follows the reasoning model naming
// convention ("o1", "o3", "o4-mini", ...).
func IsNextGenModel(name string) bool { return strings.HasPrefix(name, "o") }

// BudgetFor returns the token budget for a model name.
func BudgetFor(name string) TokenBudget {
	if IsNextGenModel(name) {
		return TokenBudget{Param: TokenParamMaxCompletionTokens, Limit: NextGenTokenLimit}
	}
	return TokenBudget{Param: TokenParamMaxTokens, Limit: ClassicTokenLimit}
}

// TransportRequest is the normalized call shape handed to a provider transport.
type TransportRequest struct {
	Model       string
	Messages    []Message
	Tools       []ToolDefinition
	ToolChoice  string // "auto" when Tools is non-empty
	Temperature float64
	TopP        float64
	TokenBudget TokenBudget
}

// TransportResponse is what a provider transport returns: text content and
// zero or more raw tool call descriptors.
type TransportResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
	Usage        *TokenUsage
}

// Transport sends one request to a concrete provider.
type Transport interface {
	Send(ctx context.Context, req TransportRequest) (*TransportResponse, error)
}

// TransportFunc adapts an ordinary function to Transport.
type TransportFunc func(ctx context.Context, req TransportRequest) (*TransportResponse, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, req TransportRequest) (*TransportResponse, error) {
	return f(ctx, req)
}

// CallRequest captures the inputs of a single model call.
type CallRequest struct {
	Messages []Message
	AgentID  string           // selects the per-agent layer; "" uses only the global default
	Override Config           // per-call layer, highest precedence
	Tools    []ToolDefinition // optional tool catalog
}

// RouterOptions configures a Router.
type RouterOptions struct {
	Transports map[Provider]Transport
	Logger     logging.Logger
}

// Router resolves a Config, validates it against the Catalog and dispatches
// the call to the Transport registered for the provider. It holds no per-run
// state and is safe for concurrent use once constructed.
type Router struct {
	catalog    Catalog
	transports map[Provider]Transport
	logger     logging.Logger
}

// NewRouter creates a Router for the given catalog.
func NewRouter(catalog Catalog, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{
		Transports: map[Provider]Transport{},
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	transports := make(map[Provider]Transport, len(opts.Transports))
	for p, t := range opts.Transports {
		if t != nil {
			transports[p] = t
		}
	}
	return &Router{catalog: catalog, transports: transports, logger: opts.Logger}
}

// Catalog returns the router's catalog.
func (r *Router) Catalog() Catalog { return r.catalog }

// Resolve returns the effective, validated Config for agentID and override.
func (r *Router) Resolve(agentID string, override Config) (Config, error) {
	cfg, err := r.catalog.Resolve(agentID, override)
	if err != nil {
		return Config{}, err
	}
	if err := r.catalog.Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Call resolves the configuration, dispatches to the provider transport and
// normalizes the response into a Result.
func (r *Router) Call(ctx context.Context, req CallRequest) (Result, error) {
	cfg, err := r.Resolve(req.AgentID, req.Override)
	if err != nil {
		return nil, err
	}

	transport, ok := r.transports[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTransport, cfg.Provider)
	}

	treq := TransportRequest{
		Model:       cfg.Model,
		Messages:    req.Messages,
		Temperature: Temperature,
		TopP:        TopP,
		TokenBudget: BudgetFor(cfg.Model),
	}
	if len(req.Tools) > 0 {
		treq.Tools = req.Tools
		treq.ToolChoice = ToolChoiceAuto
	}

	start := time.Now()
	resp, err := transport.Send(ctx, treq)
	dur := time.Since(start)
	if m, ok := r.logger.(logging.MetricsLogger); ok {
		m.LogModelCall(string(cfg.Provider), cfg.Model, dur, err == nil, err)
	}
	if err != nil {
		r.logger.Error("model.call.error", "provider", cfg.Provider, "model", cfg.Model, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return nil, fmt.Errorf("%s call failed: %w", cfg.Provider, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%s returned no response", cfg.Provider)
	}

	r.logger.Debug("model.call", "provider", cfg.Provider, "model", cfg.Model, "duration_ms", dur.Milliseconds(), "tool_calls", len(resp.ToolCalls))

	return normalize(resp), nil
}

func normalize(resp *TransportResponse) Result {
	if len(resp.ToolCalls) == 0 {
		return TextResult{Text: resp.Content}
	}
	calls := make([]ToolCall, len(resp.ToolCalls))
	for i, tc := range resp.ToolCalls {
		if tc.Type == "" {
			tc.Type = "function"
		}
		calls[i] = tc
	}
	return ToolCallResult{Content: resp.Content, ToolCalls: calls}
}
