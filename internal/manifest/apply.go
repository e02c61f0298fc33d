package manifest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vk/modregistry/internal/ctxlog"
	"github.com/vk/modregistry/internal/registry"
	"github.com/vk/modregistry/internal/security"
)

// Apply merges every policy into the matching registered module's metadata.
// A policy naming a module that is not registered fails the whole apply, so
// a stale manifest is caught at startup rather than surfacing later as a
// silently unmodified module.
func (m *Manifest) Apply(ctx context.Context, reg *registry.Registry) error {
	logger := ctxlog.FromContext(ctx)

	names := make([]string, 0, len(m.Policies))
	for name := range m.Policies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		policy := m.Policies[name]
		if !reg.Has(name) {
			return fmt.Errorf("manifest references unknown module %q; registered modules: %v",
				name, reg.List())
		}
		if err := applyPolicy(reg, policy); err != nil {
			return fmt.Errorf("failed to apply policy for module %q: %w", name, err)
		}
		logger.Debug("Applied module policy.", "name", name)
	}

	logger.Info("Policy manifest applied.", "policies", len(names))
	return nil
}

func applyPolicy(reg *registry.Registry, policy *ModulePolicy) error {
	var review *security.ReviewStatus
	if policy.Review != nil {
		state, err := security.ParseReviewState(policy.Review.Status)
		if err != nil {
			return err
		}
		review = &security.ReviewStatus{
			State:     state,
			Timestamp: time.Now().Unix(),
		}
		if policy.Review.Reviewer != nil {
			review.Reviewer = *policy.Review.Reviewer
		}
		if policy.Review.Reason != nil {
			review.Reason = *policy.Review.Reason
		}
		if state == security.ReviewApproved && review.Reviewer == "" {
			return fmt.Errorf("approved review requires a reviewer")
		}
		if state == security.ReviewRejected && review.Reason == "" {
			return fmt.Errorf("rejected review requires a reason")
		}
	}

	var chain *security.SupplyChain
	if policy.SupplyChain != nil {
		deps, err := policy.SupplyChain.dependencyMap()
		if err != nil {
			return err
		}
		chain = &security.SupplyChain{
			SourceURL:      policy.SupplyChain.SourceURL,
			CommitHash:     policy.SupplyChain.CommitHash,
			BuildTimestamp: time.Now().Unix(),
			Dependencies:   deps,
		}
		if policy.SupplyChain.BuildTimestamp != nil {
			chain.BuildTimestamp = *policy.SupplyChain.BuildTimestamp
		}
		if policy.SupplyChain.BuildEnvironment != nil {
			chain.BuildEnvironment = *policy.SupplyChain.BuildEnvironment
		}
		if policy.SupplyChain.VerifierSignature != nil {
			chain.VerifierSignature = *policy.SupplyChain.VerifierSignature
		}
	}

	return reg.UpdateMetadata(policy.Name, func(meta *registry.Metadata) {
		for _, tag := range policy.Tags {
			if !meta.HasTag(tag) {
				meta.Tags = append(meta.Tags, tag)
			}
		}
		if policy.Permissions != nil {
			applyPermissions(&meta.Security.Permissions, policy.Permissions)
		}
		if review != nil {
			meta.Security.Review = *review
		}
		if chain != nil {
			meta.Security.SupplyChain = chain
		}
		if policy.Sandbox != nil {
			applySandbox(&meta.Security.Sandbox, policy.Sandbox)
		}
	})
}

func applyPermissions(perms *security.Permissions, block *PermissionsBlock) {
	if block.FilesystemAccess != nil {
		perms.FilesystemAccess = *block.FilesystemAccess
	}
	if block.NetworkAccess != nil {
		perms.NetworkAccess = *block.NetworkAccess
	}
	if block.ProcessSpawn != nil {
		perms.ProcessSpawn = *block.ProcessSpawn
	}
	if block.EnvAccess != nil {
		perms.EnvAccess = *block.EnvAccess
	}
	if block.SystemAccess != nil {
		perms.SystemAccess = *block.SystemAccess
	}
	if block.MemoryLimitMB != nil {
		perms.MemoryLimitMB = uint64(*block.MemoryLimitMB)
	}
	if block.CPULimitPercent != nil {
		perms.CPULimitPercent = uint8(*block.CPULimitPercent)
	}
	if block.TimeoutSeconds != nil {
		perms.TimeoutSeconds = uint64(*block.TimeoutSeconds)
	}
}

func applySandbox(sandbox *security.SandboxConfig, block *SandboxBlock) {
	if block.Enabled != nil {
		sandbox.Enabled = *block.Enabled
	}
	if block.FilesystemIsolation != nil {
		sandbox.FilesystemIsolation = *block.FilesystemIsolation
	}
	if block.NetworkIsolation != nil {
		sandbox.NetworkIsolation = *block.NetworkIsolation
	}
	if block.ProcessIsolation != nil {
		sandbox.ProcessIsolation = *block.ProcessIsolation
	}
	if block.ReadOnlyFS != nil {
		sandbox.ReadOnlyFS = *block.ReadOnlyFS
	}
	if block.AllowedPaths != nil {
		sandbox.AllowedPaths = append([]string(nil), block.AllowedPaths...)
	}
	if block.DeniedPaths != nil {
		sandbox.DeniedPaths = append([]string(nil), block.DeniedPaths...)
	}
}
