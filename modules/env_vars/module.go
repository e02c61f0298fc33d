// Package env_vars provides a provider module that snapshots the process
// environment at construction time.
package env_vars

import (
	"os"
	"strings"

	"github.com/vk/modregistry/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func init() {
	registry.Contribute(&Module{})
}

// Provider holds an immutable snapshot of the environment taken when the
// factory ran. Two instances created at different times may differ.
type Provider struct {
	vars map[string]string
}

// Name returns the module's registry name.
func (p *Provider) Name() string { return "env_vars" }

// ModuleType returns the module's coarse type tag.
func (p *Provider) ModuleType() string { return "provider" }

// All returns a copy of the snapshot.
func (p *Provider) All() map[string]string {
	out := make(map[string]string, len(p.vars))
	for k, v := range p.vars {
		out[k] = v
	}
	return out
}

// Get returns the value of a single variable from the snapshot.
func (p *Provider) Get(key string) (string, bool) {
	v, ok := p.vars[key]
	return v, ok
}

// New constructs a Provider with a fresh environment snapshot.
func New() (any, error) {
	vars := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			vars[pair[0]] = pair[1]
		}
	}
	return &Provider{vars: vars}, nil
}

// Register registers the module's factory with the registry.
func (m *Module) Register(r *registry.Registry) error {
	meta := registry.NewMetadata("env_vars", "provider", "New", "modules/env_vars", "Provider")
	meta.Tags = []string{"environment", "config"}
	meta.Security.Permissions.EnvAccess = true
	return r.RegisterWithMetadata("env_vars", "provider", New, meta)
}
