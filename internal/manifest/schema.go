package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileSchema is the gohcl decoding target for one manifest file.
type fileSchema struct {
	Modules []*ModulePolicy `hcl:"module,block"`
}

// ModulePolicy is the decoded policy for one named module.
type ModulePolicy struct {
	Name        string            `hcl:"name,label"`
	Tags        []string          `hcl:"tags,optional"`
	Permissions *PermissionsBlock `hcl:"permissions,block"`
	Review      *ReviewBlock      `hcl:"review,block"`
	SupplyChain *SupplyChainBlock `hcl:"supply_chain,block"`
	Sandbox     *SandboxBlock     `hcl:"sandbox,block"`
}

// PermissionsBlock overrides individual permission grants. Unset fields
// leave the registered value untouched.
type PermissionsBlock struct {
	FilesystemAccess *bool  `hcl:"filesystem_access,optional"`
	NetworkAccess    *bool  `hcl:"network_access,optional"`
	ProcessSpawn     *bool  `hcl:"process_spawn,optional"`
	EnvAccess        *bool  `hcl:"env_access,optional"`
	SystemAccess     *bool  `hcl:"system_access,optional"`
	MemoryLimitMB    *int64 `hcl:"memory_limit_mb,optional"`
	CPULimitPercent  *int64 `hcl:"cpu_limit_percent,optional"`
	TimeoutSeconds   *int64 `hcl:"timeout_seconds,optional"`
}

// ReviewBlock records a code review decision.
type ReviewBlock struct {
	Status   string  `hcl:"status"`
	Reviewer *string `hcl:"reviewer,optional"`
	Reason   *string `hcl:"reason,optional"`
}

// SupplyChainBlock records provenance for a module's code.
type SupplyChainBlock struct {
	SourceURL         string         `hcl:"source_url"`
	CommitHash        string         `hcl:"commit_hash"`
	BuildTimestamp    *int64         `hcl:"build_timestamp,optional"`
	BuildEnvironment  *string        `hcl:"build_environment,optional"`
	VerifierSignature *string        `hcl:"verifier_signature,optional"`
	Dependencies      hcl.Expression `hcl:"dependencies,optional"`
}

// SandboxBlock overrides sandbox settings. Unset fields leave the
// registered value untouched.
type SandboxBlock struct {
	Enabled             *bool    `hcl:"enabled,optional"`
	FilesystemIsolation *bool    `hcl:"filesystem_isolation,optional"`
	NetworkIsolation    *bool    `hcl:"network_isolation,optional"`
	ProcessIsolation    *bool    `hcl:"process_isolation,optional"`
	ReadOnlyFS          *bool    `hcl:"read_only_fs,optional"`
	AllowedPaths        []string `hcl:"allowed_paths,optional"`
	DeniedPaths         []string `hcl:"denied_paths,optional"`
}

// dependencyMap evaluates the dependencies expression into a plain string
// map. The attribute accepts any HCL object or map whose values are
// strings.
func (b *SupplyChainBlock) dependencyMap() (map[string]string, error) {
	if b.Dependencies == nil {
		return nil, nil
	}

	val, diags := b.Dependencies.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate dependencies: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("dependencies must be a map of strings, got %s", val.Type().FriendlyName())
	}

	deps := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.Type() != cty.String {
			return nil, fmt.Errorf("dependency %q must be a string version, got %s",
				k.AsString(), v.Type().FriendlyName())
		}
		deps[k.AsString()] = v.AsString()
	}
	return deps, nil
}
