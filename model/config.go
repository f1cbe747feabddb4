package model

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Provider is the closed set of model backends the router can dispatch to.
type Provider string

const (
	// ProviderAOAI is Azure OpenAI.
	ProviderAOAI Provider = "aoai"
	// ProviderOpenAI is the public OpenAI API.
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic Messages API.
	ProviderAnthropic Provider = "anthropic"
)

// Providers lists every known provider.
var Providers = []Provider{ProviderAOAI, ProviderOpenAI, ProviderAnthropic}

// ParseProvider maps a configuration string to a Provider.
func ParseProvider(s string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Providers, p) {
		return p, true
	}
	return p, false
}

// Config is the resolved {provider, model} pair used for a single call.
type Config struct {
	Provider Provider `yaml:"provider" json:"provider,omitempty"`
	Model    string   `yaml:"model" json:"model,omitempty"`
}

// IsZero reports whether neither field is set.
func (c Config) IsZero() bool { return c.Provider == "" && c.Model == "" }

// Merge layers configs in increasing precedence. Empty fields never override.
func Merge(layers ...Config) Config {
	var out Config
	for _, l := range layers {
		if l.Provider != "" {
			out.Provider = l.Provider
		}
		if l.Model != "" {
			out.Model = l.Model
		}
	}
	return out
}

// Catalog is the read-only configuration source for model resolution: a
// global default, per-agent defaults and the supported models per provider.
type Catalog struct {
	Default   Config
	Agents    map[string]Config
	Supported map[Provider][]string
}

// DefaultCatalog mirrors the shipped default configuration.
func DefaultCatalog() Catalog {
	return Catalog{
		Default: Config{Provider: ProviderAOAI, Model: "gpt-4o"},
		Agents:  map[string]Config{},
		Supported: map[Provider][]string{
			ProviderAOAI:      {"gpt-4o", "o3"},
			ProviderOpenAI:    {"gpt-4o", "o3"},
			ProviderAnthropic: {"claude-sonnet-4-20250514"},
		},
	}
}

// Resolve merges global default, the agentID layer and override, then checks
// that both provider and model are present.
func (c Catalog) Resolve(agentID string, override Config) (Config, error) {
	cfg := Merge(c.Default, c.Agents[agentID], override)

	var missing []string
	if cfg.Provider == "" {
		missing = append(missing, "provider")
	}
	if cfg.Model == "" {
		missing = append(missing, "model")
	}
	if len(missing) > 0 {
		return Config{}, &UnresolvedConfigError{AgentID: agentID, Missing: missing}
	}
	return cfg, nil
}

// Validate checks that the provider is known and listed as supported and that
// the model is registered for it.
func (c Catalog) Validate(cfg Config) error {
	models, ok := c.Supported[cfg.Provider]
	if _, known := ParseProvider(string(cfg.Provider)); !known || !ok {
		return &UnsupportedProviderError{Provider: cfg.Provider, Supported: c.SupportedProviders()}
	}
	if !slices.Contains(models, cfg.Model) {
		return &UnsupportedModelError{Provider: cfg.Provider, Model: cfg.Model, Supported: slices.Clone(models)}
	}
	return nil
}

// SupportedProviders returns the providers listed in the catalog, sorted.
func (c Catalog) SupportedProviders() []Provider {
	out := make([]Provider, 0, len(c.Supported))
	for p := range c.Supported {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// UnresolvedConfigError is returned when layering produced no provider or no model.
type UnresolvedConfigError struct {
	AgentID string
	Missing []string
}

func (e *UnresolvedConfigError) Error() string {
	return fmt.Sprintf("no model configuration found for agent %q: missing %s", e.AgentID, strings.Join(e.Missing, ", "))
}

// UnsupportedProviderError is returned when the resolved provider is unknown
// or not listed in the catalog.
type UnsupportedProviderError struct {
	Provider  Provider
	Supported []Provider
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("model provider %q is not supported; supported providers are %v", e.Provider, e.Supported)
}

// UnsupportedModelError is returned when the model is not registered for the provider.
type UnsupportedModelError struct {
	Provider  Provider
	Model     string
	Supported []string
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("model %q is not supported for provider %q; supported models are %v", e.Model, e.Provider, e.Supported)
}
