package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/furixturi/deep-research-scratch/model"
)

// Models is the models section of the file:
//
//	models:
//	  default: {provider: aoai, model: gpt-4o}
//	  <agent_id>: {model: o3}
//	  supported: {aoai: [gpt-4o, o3]}
//
// Every key other than default and supported is a per-agent layer.
type Models struct {
	Default   model.Config
	Agents    map[string]model.Config
	Supported map[model.Provider][]string
}

// UnmarshalYAML decodes the section over the current values. A present
// default replaces the default, a present supported block replaces the
// whole supported table and agent entries are added one by one.
func (m *Models) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: models must be a mapping", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "default":
			var cfg model.Config
			if err := value.Decode(&cfg); err != nil {
				return fmt.Errorf("models.default: %w", err)
			}
			m.Default = cfg
		case "supported":
			var raw map[string][]string
			if err := value.Decode(&raw); err != nil {
				return fmt.Errorf("models.supported: %w", err)
			}
			m.Supported = make(map[model.Provider][]string, len(raw))
			for p, models := range raw {
				provider, _ := model.ParseProvider(p)
				m.Supported[provider] = models
			}
		default:
			var cfg model.Config
			if err := value.Decode(&cfg); err != nil {
				return fmt.Errorf("models.%s: %w", key, err)
			}
			cfg.Provider, _ = model.ParseProvider(string(cfg.Provider))
			if m.Agents == nil {
				m.Agents = map[string]model.Config{}
			}
			m.Agents[key] = cfg
		}
	}
	m.Default.Provider, _ = model.ParseProvider(string(m.Default.Provider))
	return nil
}

// MarshalYAML writes the section back in file form.
func (m Models) MarshalYAML() (any, error) {
	out := map[string]any{"default": m.Default}
	for id, cfg := range m.Agents {
		out[id] = cfg
	}
	supported := make(map[string][]string, len(m.Supported))
	for p, models := range m.Supported {
		supported[string(p)] = models
	}
	out["supported"] = supported
	return out, nil
}
