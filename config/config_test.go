package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/furixturi/deep-research-scratch/agent"
	"github.com/furixturi/deep-research-scratch/model"
)

const sampleConfig = `
agent_type: single_agent
max_steps: 3
log_level: debug
log_format: text
tool_error_policy: record
server:
  addr: ":9000"
models:
  default:
    provider: AOAI
    model: gpt-4o
  single_agent:
    provider: openai
    model: o3
  supported:
    aoai: [gpt-4o]
    openai: [gpt-4o, o3]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxSteps)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, agent.PolicyRecord, cfg.Policy())

	catalog := cfg.Catalog()
	assert.Equal(t, model.Config{Provider: model.ProviderAOAI, Model: "gpt-4o"}, catalog.Default)
	assert.Equal(t, model.Config{Provider: model.ProviderOpenAI, Model: "o3"}, catalog.Agents["single_agent"])
	assert.Equal(t, map[model.Provider][]string{
		model.ProviderAOAI:   {"gpt-4o"},
		model.ProviderOpenAI: {"gpt-4o", "o3"},
	}, catalog.Supported)

	resolved, err := catalog.Resolve("single_agent", model.Config{})
	require.NoError(t, err)
	assert.Equal(t, model.Config{Provider: model.ProviderOpenAI, Model: "o3"}, resolved)

	assert.Equal(t, agent.RunConfig{MaxSteps: 3, AgentType: "single_agent"}, cfg.RunDefaults())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, agent.PolicyAbort, cfg.Policy())
}

func TestLoad_PartialModelsKeepDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "models:\n  search_agent: {model: o3}\n"))
	require.NoError(t, err)

	assert.Equal(t, model.DefaultCatalog().Default, cfg.Models.Default)
	assert.Equal(t, model.DefaultCatalog().Supported, cfg.Models.Supported)
	assert.Equal(t, model.Config{Model: "o3"}, cfg.Models.Agents["search_agent"])
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvMaxSteps, "7")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvAddr, "127.0.0.1:8080")

	cfg, err := Load(writeFile(t, "config.yaml", sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxSteps)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":         "max_steps: [",
		"zero steps":       "max_steps: 0",
		"bad level":        "log_level: loud",
		"planner":          "agent_type: planner_agent",
		"bad policy":       "tool_error_policy: retry",
		"unknown provider": "models:\n  supported:\n    gemini: [x]\n",
		"models not map":   "models: [a]",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.yaml", content))
			assert.Error(t, err)
		})
	}

	t.Run("bad env", func(t *testing.T) {
		t.Setenv(EnvMaxSteps, "many")
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestModels_MarshalRoundTrip(t *testing.T) {
	in := Default().Models
	raw, err := yaml.Marshal(in)
	require.NoError(t, err)

	out := Models{}
	require.NoError(t, yaml.Unmarshal(raw, &out))
	assert.Equal(t, in.Default, out.Default)
	assert.Equal(t, in.Supported, out.Supported)
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "from-env")
	t.Setenv(EnvAnthropicKey, "")
	t.Setenv(EnvAOAIVersion, "")
	envFile := writeFile(t, ".env", "OPENAI_KEY=from-file\nAOAI_ENDPOINT=https://example.openai.azure.com\n")
	t.Cleanup(func() { os.Unsetenv(EnvAOAIEndpoint) })

	creds, err := LoadCredentials(envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-env", creds.OpenAIKey)
	assert.Equal(t, "https://example.openai.azure.com", creds.AOAIEndpoint)
	assert.Equal(t, DefaultAOAIVersion, creds.AOAIVersion)
	assert.Empty(t, creds.AnthropicKey)
}

func TestLoadCredentials_SkipsMissingFiles(t *testing.T) {
	t.Setenv(EnvAnthropicKey, "")
	require.NoError(t, os.Unsetenv(EnvAnthropicKey))
	second := writeFile(t, "second.env", "ANTHROPIC_KEY=from-second\n")

	creds, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.env"), second)
	require.NoError(t, err)
	assert.Equal(t, "from-second", creds.AnthropicKey)
}

func TestLoadCredentials_ParseError(t *testing.T) {
	bad := writeFile(t, "bad.env", "OPENAI_KEY=\"unterminated\n")

	_, err := LoadCredentials(bad)
	assert.ErrorContains(t, err, "bad.env")
}
