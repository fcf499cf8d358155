package capabilities

import "gopkg.in/yaml.v3"

// ModelCapabilities describes a critic model
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	SupportsVision bool `yaml:"supports_vision" json:"supports_vision"`

	ContextWindow int `yaml:"context_window" json:"context_window"`
	MaxOutput     int `yaml:"max_output" json:"max_output"`
}

// CriticConfig is the embedded critic catalogue for one provider
type CriticConfig struct {
	Provider    string              `yaml:"provider" json:"provider"`
	Models      []ModelCapabilities `yaml:"-" json:"models"` // Ordered slice, populated by custom unmarshaler
	Roles       map[string]string   `yaml:"roles" json:"roles"`
	DefaultRole string              `yaml:"default_role" json:"default_role"`
}

// UnmarshalYAML preserves model order from the YAML file
func (c *CriticConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain struct {
		Provider    string                       `yaml:"provider"`
		Models      map[string]ModelCapabilities `yaml:"models"`
		Roles       map[string]string            `yaml:"roles"`
		DefaultRole string                       `yaml:"default_role"`
	}
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	c.Provider = p.Provider
	c.Roles = p.Roles
	c.DefaultRole = p.DefaultRole

	// Extract model keys in YAML order. modelsNode.Content alternates key, value.
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value != "models" {
			continue
		}
		modelsNode := node.Content[i+1]
		for j := 0; j < len(modelsNode.Content); j += 2 {
			modelID := modelsNode.Content[j].Value
			if model, ok := p.Models[modelID]; ok {
				model.ID = modelID
				c.Models = append(c.Models, model)
			}
		}
		break
	}

	return nil
}
