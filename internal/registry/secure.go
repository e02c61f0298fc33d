package registry

import (
	"log/slog"
	"time"

	"github.com/vk/modregistry/internal/security"
)

// RegisterSecure inserts a record carrying an explicit security profile.
// Nil signature and supply chain are allowed; they simply leave the module
// unverified on those axes.
func (r *Registry) RegisterSecure(name, moduleType string, factory Factory,
	sig *security.Signature, perms security.Permissions, chain *security.SupplyChain) error {

	meta := NewMetadata(name, moduleType, "factory", "", "")
	meta.Security.Signature = sig
	meta.Security.Permissions = perms
	meta.Security.SupplyChain = chain
	return r.RegisterWithMetadata(name, moduleType, factory, meta)
}

// VerifySignature reports whether the named module carries a currently
// valid signature.
func (r *Registry) VerifySignature(name string) (bool, error) {
	meta, ok := r.Lookup(name)
	if !ok {
		return false, &NotFoundError{Name: name}
	}
	return security.Validator{}.VerifySignature(meta.Security), nil
}

// CheckPermission reports whether the named module holds the given grant.
func (r *Registry) CheckPermission(name, permission string) (bool, error) {
	meta, ok := r.Lookup(name)
	if !ok {
		return false, &NotFoundError{Name: name}
	}
	return security.Validator{}.CheckPermission(meta.Security, permission)
}

// IsApproved reports whether the named module passed code review.
func (r *Registry) IsApproved(name string) (bool, error) {
	meta, ok := r.Lookup(name)
	if !ok {
		return false, &NotFoundError{Name: name}
	}
	return meta.Security.Approved(), nil
}

// VerifySupplyChain reports whether the named module's provenance checks out.
func (r *Registry) VerifySupplyChain(name string) (bool, error) {
	meta, ok := r.Lookup(name)
	if !ok {
		return false, &NotFoundError{Name: name}
	}
	return security.Validator{}.VerifySupplyChain(meta.Security), nil
}

// UpdateReviewStatus records a code review decision for the named module.
// The timestamp is stamped here so callers only supply the decision itself.
func (r *Registry) UpdateReviewStatus(name string, status security.ReviewStatus) error {
	if status.Timestamp == 0 {
		status.Timestamp = time.Now().Unix()
	}
	err := r.UpdateMetadata(name, func(meta *Metadata) {
		meta.Security.Review = status
	})
	if err != nil {
		return err
	}
	slog.Debug("Updated review status.", "name", name, "state", status.State.String())
	return nil
}

// CreateSecure instantiates the named module only if it passes the
// signature, code review, and supply chain gates. The sandbox
// configuration is resolved before the factory runs; the factory itself
// executes outside the registry lock exactly as in Create.
func (r *Registry) CreateSecure(name string) (*Instance, error) {
	meta, ok := r.Lookup(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	v := security.Validator{}
	if !v.VerifySignature(meta.Security) {
		return nil, &SecurityError{Name: name, Reason: "signature verification failed"}
	}
	if !meta.Security.Approved() {
		return nil, &SecurityError{Name: name, Reason: "module not approved"}
	}
	if !v.VerifySupplyChain(meta.Security) {
		return nil, &SecurityError{Name: name, Reason: "supply chain verification failed"}
	}

	if meta.Security.Sandbox.Enabled {
		slog.Debug("Creating sandboxed module instance.",
			"name", name,
			"filesystem_isolation", meta.Security.Sandbox.FilesystemIsolation,
			"network_isolation", meta.Security.Sandbox.NetworkIsolation,
			"read_only_fs", meta.Security.Sandbox.ReadOnlyFS)
	}

	return r.Create(name)
}

// SecurityReport summarizes the security posture of every registered
// module, keyed by name.
func (r *Registry) SecurityReport() map[string]security.Report {
	v := security.Validator{}

	r.mu.RLock()
	profiles := make(map[string]security.Profile, len(r.records))
	for name, rec := range r.records {
		profiles[name] = rec.Metadata.clone().Security
	}
	r.mu.RUnlock()

	report := make(map[string]security.Report, len(profiles))
	for name, p := range profiles {
		report[name] = security.Report{
			Name:                name,
			HasSignature:        p.Signature != nil,
			SignatureVerified:   v.VerifySignature(p),
			IsApproved:          p.Approved(),
			HasSupplyChain:      p.SupplyChain != nil,
			SupplyChainVerified: v.VerifySupplyChain(p),
			Permissions:         p.Permissions,
			SandboxEnabled:      p.Sandbox.Enabled,
		}
	}
	return report
}

// SecurityAudit runs the comprehensive validator check against every
// registered module, keyed by name.
func (r *Registry) SecurityAudit() map[string]security.CheckResult {
	v := security.Validator{}

	r.mu.RLock()
	profiles := make(map[string]security.Profile, len(r.records))
	for name, rec := range r.records {
		profiles[name] = rec.Metadata.clone().Security
	}
	r.mu.RUnlock()

	results := make(map[string]security.CheckResult, len(profiles))
	for name, p := range profiles {
		results[name] = v.Check(p)
	}
	return results
}
