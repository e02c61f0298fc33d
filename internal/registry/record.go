package registry

import (
	"fmt"

	"github.com/vk/modregistry/internal/security"
)

// Field length limits for registration records.
const (
	MaxNameLength       = 256
	MaxModuleTypeLength = 128
	MaxPathLength       = 4096
)

// Factory constructs one fresh instance of a module and returns it
// type-erased. A factory must never call back into the registry's write
// operations; read operations, including Create, are safe because the
// registry never holds its lock across a factory call.
type Factory func() (any, error)

// Capability is the minimum contract an instance produced through the
// registry is expected to satisfy. The registry itself never calls these
// methods; they exist so call sites can identify what they were handed.
type Capability interface {
	Name() string
	ModuleType() string
}

// Module is implemented by a package that contributes registrations. The
// application's composition root collects Modules and calls Register on
// each before first use of the registry.
type Module interface {
	Register(r *Registry) error
}

// Metadata describes a registered module. It is purely informational: the
// Create path never consults it, only discovery, diagnostics, and the
// secure creation gates do.
type Metadata struct {
	Name        string
	ModuleType  string
	FactoryName string
	ModulePath  string
	StructName  string
	Tags        []string
	Security    security.Profile
}

// NewMetadata builds metadata with the default (unsigned, unreviewed,
// sandboxed) security profile.
func NewMetadata(name, moduleType, factoryName, modulePath, structName string) Metadata {
	return Metadata{
		Name:        name,
		ModuleType:  moduleType,
		FactoryName: factoryName,
		ModulePath:  modulePath,
		StructName:  structName,
		Security:    security.DefaultProfile(),
	}
}

// HasTag reports whether the metadata declares the given capability tag.
func (m Metadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Summary renders the metadata as a single log-friendly line.
func (m Metadata) Summary() string {
	return fmt.Sprintf("module: %s (type: %s) - signature: %t, approved: %t, supply_chain: %t, sandbox: %t",
		m.Name, m.ModuleType,
		m.Security.Signature != nil,
		m.Security.Approved(),
		m.Security.SupplyChain != nil,
		m.Security.Sandbox.Enabled)
}

// clone returns a deep enough copy that callers can hold or mutate the
// result without aliasing the stored record.
func (m Metadata) clone() Metadata {
	out := m
	if m.Tags != nil {
		out.Tags = append([]string(nil), m.Tags...)
	}
	if m.Security.Signature != nil {
		sig := *m.Security.Signature
		out.Security.Signature = &sig
	}
	if m.Security.SupplyChain != nil {
		sc := *m.Security.SupplyChain
		if sc.Dependencies != nil {
			deps := make(map[string]string, len(sc.Dependencies))
			for k, v := range sc.Dependencies {
				deps[k] = v
			}
			sc.Dependencies = deps
		}
		out.Security.SupplyChain = &sc
	}
	if m.Security.Sandbox.AllowedPaths != nil {
		out.Security.Sandbox.AllowedPaths = append([]string(nil), m.Security.Sandbox.AllowedPaths...)
	}
	if m.Security.Sandbox.DeniedPaths != nil {
		out.Security.Sandbox.DeniedPaths = append([]string(nil), m.Security.Sandbox.DeniedPaths...)
	}
	return out
}

// Record is the immutable registration tuple stored per name. Updates to
// metadata replace the whole record under the write lock; a record handed
// out of the store is never mutated in place.
type Record struct {
	Name       string
	ModuleType string
	Factory    Factory
	Metadata   Metadata
}

// validateRecord enforces the structural limits on a registration.
func validateRecord(name, moduleType string, factory Factory, meta Metadata) error {
	if name == "" {
		return fmt.Errorf("module name must not be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("module name exceeds %d bytes: %s", MaxNameLength, name)
	}
	if len(moduleType) > MaxModuleTypeLength {
		return fmt.Errorf("module type exceeds %d bytes for %s", MaxModuleTypeLength, name)
	}
	if len(meta.ModulePath) > MaxPathLength {
		return fmt.Errorf("module path exceeds %d bytes for %s", MaxPathLength, name)
	}
	if factory == nil {
		return fmt.Errorf("module %s registered without a factory", name)
	}
	return nil
}
