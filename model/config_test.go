package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		Default: Config{Provider: ProviderAOAI, Model: "gpt-4o"},
		Agents: map[string]Config{
			"single_agent": {Model: "o3"},
			"search_agent": {Provider: ProviderOpenAI},
		},
		Supported: map[Provider][]string{
			ProviderAOAI:   {"gpt-4o", "o3"},
			ProviderOpenAI: {"gpt-4o", "o3"},
		},
	}
}

func TestMerge_Precedence(t *testing.T) {
	got := Merge(
		Config{Provider: ProviderAOAI, Model: "gpt-4o"},
		Config{Model: "o3"},
		Config{Provider: ProviderOpenAI},
	)
	assert.Equal(t, Config{Provider: ProviderOpenAI, Model: "o3"}, got)
}

func TestCatalog_Resolve(t *testing.T) {
	cat := testCatalog()

	tests := []struct {
		name     string
		agentID  string
		override Config
		want     Config
	}{
		{"global default", "unknown", Config{}, Config{Provider: ProviderAOAI, Model: "gpt-4o"}},
		{"agent layer", "single_agent", Config{}, Config{Provider: ProviderAOAI, Model: "o3"}},
		{"agent provider only", "search_agent", Config{}, Config{Provider: ProviderOpenAI, Model: "gpt-4o"}},
		{"call override wins", "single_agent", Config{Provider: ProviderOpenAI, Model: "gpt-4o"}, Config{Provider: ProviderOpenAI, Model: "gpt-4o"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cat.Resolve(tt.agentID, tt.override)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalog_ResolveUnresolved(t *testing.T) {
	cat := Catalog{}

	_, err := cat.Resolve("single_agent", Config{Model: "gpt-4o"})
	require.Error(t, err)

	var unresolved *UnresolvedConfigError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "single_agent", unresolved.AgentID)
	assert.Equal(t, []string{"provider"}, unresolved.Missing)
}

func TestCatalog_Validate(t *testing.T) {
	cat := testCatalog()

	assert.NoError(t, cat.Validate(Config{Provider: ProviderOpenAI, Model: "o3"}))

	err := cat.Validate(Config{Provider: ProviderAnthropic, Model: "claude"})
	var provErr *UnsupportedProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, ProviderAnthropic, provErr.Provider)
	assert.Equal(t, []Provider{ProviderAOAI, ProviderOpenAI}, provErr.Supported)

	err = cat.Validate(Config{Provider: "bedrock", Model: "gpt-4o"})
	assert.True(t, errors.As(err, &provErr))

	err = cat.Validate(Config{Provider: ProviderAOAI, Model: "gpt-3.5"})
	var modelErr *UnsupportedModelError
	require.True(t, errors.As(err, &modelErr))
	assert.Equal(t, "gpt-3.5", modelErr.Model)
	assert.Contains(t, modelErr.Error(), "gpt-4o")
}

func TestParseProvider(t *testing.T) {
	p, ok := ParseProvider(" OpenAI ")
	assert.True(t, ok)
	assert.Equal(t, ProviderOpenAI, p)

	_, ok = ParseProvider("bedrock")
	assert.False(t, ok)
}
