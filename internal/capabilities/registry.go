// Package capabilities holds the embedded catalogue of critic models and
// the per-role guidance used to build critique prompts.
package capabilities

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry serves critic model metadata and role guidance
type Registry struct {
	critic *CriticConfig
	mu     sync.RWMutex
}

// NewRegistry creates a registry from the embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{}
	if err := r.loadFile("config/critic.yaml"); err != nil {
		return nil, fmt.Errorf("failed to load critic capabilities: %w", err)
	}
	return r, nil
}

func (r *Registry) loadFile(filename string) error {
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var cfg CriticConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if _, ok := cfg.Roles[cfg.DefaultRole]; !ok {
		return fmt.Errorf("%s: default role %q has no guidance", filename, cfg.DefaultRole)
	}

	r.mu.Lock()
	r.critic = &cfg
	r.mu.Unlock()

	return nil
}

// GetModelCapabilities returns capabilities for a model id
func (r *Registry) GetModelCapabilities(model string) (*ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.critic.Models {
		if r.critic.Models[i].ID == model {
			m := r.critic.Models[i]
			return &m, nil
		}
	}
	return nil, fmt.Errorf("unknown model %s for provider %s", model, r.critic.Provider)
}

// ValidateCriticModel checks that a model exists and accepts images
func (r *Registry) ValidateCriticModel(model string) (*ModelCapabilities, error) {
	caps, err := r.GetModelCapabilities(model)
	if err != nil {
		return nil, err
	}
	if !caps.SupportsVision {
		return nil, fmt.Errorf("model %s does not support image input", model)
	}
	return caps, nil
}

// ListModels returns all critic models in YAML order
func (r *Registry) ListModels() []ModelCapabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]ModelCapabilities(nil), r.critic.Models...)
}

// RoleGuidance returns the prompt guidance for a role, falling back to the
// default role for unknown names.
func (r *Registry) RoleGuidance(role string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if g, ok := r.critic.Roles[strings.ToLower(strings.TrimSpace(role))]; ok {
		return strings.TrimSpace(g)
	}
	return strings.TrimSpace(r.critic.Roles[r.critic.DefaultRole])
}

// Roles returns the names of roles with prompt guidance, sorted
func (r *Registry) Roles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]string, 0, len(r.critic.Roles))
	for name := range r.critic.Roles {
		roles = append(roles, name)
	}
	sort.Strings(roles)
	return roles
}

// DefaultRole is the role used when a critique names none
func (r *Registry) DefaultRole() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.critic.DefaultRole
}
