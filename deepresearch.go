// Package deepresearch provides a high-level façade over the ReAct agent,
// the tool registry and the model router. Most applications interact with
// this package by:
//  1. Creating a DeepResearch via New() or NewFromConfig()
//  2. Registering additional tools on Registry() before the first run
//  3. Calling Run with a prompt and a loosely typed request config
//
// All defaults are safe for local development: the builtin stub tools are
// registered and transports are only wired for providers with credentials.
package deepresearch

import (
	"context"
	"errors"
	"fmt"

	"github.com/furixturi/deep-research-scratch/agent"
	"github.com/furixturi/deep-research-scratch/config"
	"github.com/furixturi/deep-research-scratch/logging"
	"github.com/furixturi/deep-research-scratch/model"
	"github.com/furixturi/deep-research-scratch/model/anthropic"
	"github.com/furixturi/deep-research-scratch/model/openai"
	"github.com/furixturi/deep-research-scratch/tool"
	"github.com/furixturi/deep-research-scratch/tool/builtin"
)

// ErrInvalidConfig is returned by Run when the request config cannot be
// interpreted.
var ErrInvalidConfig = errors.New("invalid config")

// Options configures the DeepResearch instance.
type Options struct {
	// Catalog is the model configuration source.
	Catalog model.Catalog

	// Transports maps providers to their transport. Providers without an
	// entry fail with model.ErrNoTransport when selected.
	Transports map[model.Provider]model.Transport

	// Registry holds the tools. When nil a registry with the builtin tools
	// is created.
	Registry *tool.Registry

	// RunDefaults are applied under every request config.
	RunDefaults agent.RunConfig

	// AgentOptions customize the agent (instruction, policy, text actions).
	AgentOptions []func(o *agent.Options)

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// DeepResearch is the high-level façade aggregating router, registry and agent.
type DeepResearch struct {
	opts     Options
	router   *model.Router
	registry *tool.Registry
	agent    *agent.Agent
}

// New creates a DeepResearch instance. The tool registry is snapshotted into
// the agent's system prompt here, so register custom tools through
// Options.Registry.
func New(optFns ...func(o *Options)) (*DeepResearch, error) {
	opts := Options{
		Catalog:     model.DefaultCatalog(),
		Transports:  map[model.Provider]model.Transport{},
		RunDefaults: agent.RunConfig{MaxSteps: agent.DefaultMaxSteps},
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Registry == nil {
		opts.Registry = tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = opts.Logger })
		if err := builtin.Register(opts.Registry); err != nil {
			return nil, fmt.Errorf("register builtin tools: %w", err)
		}
	}

	router := model.NewRouter(opts.Catalog, func(o *model.RouterOptions) {
		o.Transports = opts.Transports
		o.Logger = opts.Logger
	})
	dispatcher := tool.NewDispatcher(opts.Registry, func(o *tool.DispatcherOptions) { o.Logger = opts.Logger })

	agentOpts := []func(o *agent.Options){agent.WithLogger(opts.Logger)}
	if opts.RunDefaults.MaxSteps > 0 {
		agentOpts = append(agentOpts, agent.WithMaxSteps(opts.RunDefaults.MaxSteps))
	}
	agentOpts = append(agentOpts, opts.AgentOptions...)

	a, err := agent.New(router, dispatcher, agentOpts...)
	if err != nil {
		return nil, err
	}

	return &DeepResearch{
		opts:     opts,
		router:   router,
		registry: opts.Registry,
		agent:    a,
	}, nil
}

// NewFromConfig wires a DeepResearch from the process configuration and
// credentials.
func NewFromConfig(cfg *config.Config, creds config.Credentials, optFns ...func(o *Options)) (*DeepResearch, error) {
	base := func(o *Options) {
		o.Catalog = cfg.Catalog()
		o.Transports = NewTransports(creds)
		o.RunDefaults = cfg.RunDefaults()
		o.AgentOptions = append(o.AgentOptions, agent.WithToolErrorPolicy(cfg.Policy()))
		if cfg.TextActions {
			o.AgentOptions = append(o.AgentOptions, agent.WithTextActions())
		}
	}
	return New(append([]func(o *Options){base}, optFns...)...)
}

// NewTransports builds a transport for every provider whose credentials are
// present.
func NewTransports(creds config.Credentials) map[model.Provider]model.Transport {
	transports := map[model.Provider]model.Transport{}
	if creds.AOAIEndpoint != "" {
		transports[model.ProviderAOAI] = openai.NewTransport(func(o *openai.Options) {
			o.APIKey = creds.AOAIKey
			o.AzureEndpoint = creds.AOAIEndpoint
			o.AzureAPIVersion = creds.AOAIVersion
		})
	}
	if creds.OpenAIKey != "" {
		transports[model.ProviderOpenAI] = openai.NewTransport(func(o *openai.Options) {
			o.APIKey = creds.OpenAIKey
		})
	}
	if creds.AnthropicKey != "" {
		transports[model.ProviderAnthropic] = anthropic.NewTransport(func(o *anthropic.Options) {
			o.APIKey = creds.AnthropicKey
		})
	}
	return transports
}

// Run executes the agent for prompt with a loosely typed request config
// (max_steps, provider, model, agent_id, agent_type) and returns the final
// answer or a diagnostic. The error is non-nil only when the run failed.
func (d *DeepResearch) Run(ctx context.Context, prompt string, cfg map[string]any) (string, error) {
	rc, err := agent.RunConfigFromMap(cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	out, err := d.RunWithConfig(ctx, prompt, rc)
	return out.Text(), err
}

// RunWithConfig executes the agent and returns the full outcome.
func (d *DeepResearch) RunWithConfig(ctx context.Context, prompt string, rc agent.RunConfig) (*agent.Outcome, error) {
	return d.agent.Run(ctx, prompt, d.opts.RunDefaults.Merge(rc))
}

// CallModel performs a single model call without the agent loop.
func (d *DeepResearch) CallModel(ctx context.Context, req model.CallRequest) (model.Result, error) {
	return d.router.Call(ctx, req)
}

// Registry returns the tool registry.
func (d *DeepResearch) Registry() *tool.Registry { return d.registry }

// Router returns the model router.
func (d *DeepResearch) Router() *model.Router { return d.router }

// Agent returns the underlying agent.
func (d *DeepResearch) Agent() *agent.Agent { return d.agent }
