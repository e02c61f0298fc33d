package security

import (
	"fmt"
	"time"
)

// Validator evaluates module security profiles. The zero value is ready to
// use; Now is overridable so expiry checks are deterministic in tests.
type Validator struct {
	Now func() time.Time
}

func (v Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// VerifySignature reports whether the profile carries a currently valid
// signature. An absent signature is not an error, just unverified.
func (v Validator) VerifySignature(p Profile) bool {
	sig := p.Signature
	if sig == nil {
		return false
	}
	if v.now().Unix()-sig.Timestamp > SignatureExpirySeconds {
		return false
	}
	if sig.Algorithm != SignatureAlgorithm {
		return false
	}
	// Real signature verification would go here; presence of non-empty
	// material is the stand-in contract.
	return sig.Signature != "" && sig.PublicKey != ""
}

// CheckPermission reports whether the named grant is present in the profile.
// Unknown permission names are an error so callers cannot silently probe a
// grant that does not exist.
func (v Validator) CheckPermission(p Profile, permission string) (bool, error) {
	switch permission {
	case "filesystem_access":
		return p.Permissions.FilesystemAccess, nil
	case "network_access":
		return p.Permissions.NetworkAccess, nil
	case "process_spawn":
		return p.Permissions.ProcessSpawn, nil
	case "env_access":
		return p.Permissions.EnvAccess, nil
	case "system_access":
		return p.Permissions.SystemAccess, nil
	default:
		return false, fmt.Errorf("unknown permission: %s", permission)
	}
}

// IsApproved reports whether the profile passed code review.
func (v Validator) IsApproved(p Profile) bool {
	return p.Approved()
}

// VerifySupplyChain reports whether the profile's provenance is plausible:
// a source and commit are recorded and the build did not happen in the future.
func (v Validator) VerifySupplyChain(p Profile) bool {
	sc := p.SupplyChain
	if sc == nil {
		return false
	}
	if sc.SourceURL == "" || sc.CommitHash == "" {
		return false
	}
	return sc.BuildTimestamp <= v.now().Unix()
}

// Check runs every gate against the profile and rolls the findings up into
// a single result.
func (v Validator) Check(p Profile) CheckResult {
	var issues []Issue
	var warnings []Warning

	if !v.VerifySignature(p) {
		issues = append(issues, Issue{
			Severity:  SeverityHigh,
			Message:   "module signature verification failed",
			Component: "signature",
		})
	}

	if !v.IsApproved(p) {
		issues = append(issues, Issue{
			Severity:  SeverityMedium,
			Message:   "module not approved by code review",
			Component: "review",
		})
	}

	if !v.VerifySupplyChain(p) {
		issues = append(issues, Issue{
			Severity:  SeverityMedium,
			Message:   "supply chain verification failed",
			Component: "supply_chain",
		})
	}

	if p.Permissions.SystemAccess && !p.Sandbox.Enabled {
		issues = append(issues, Issue{
			Severity:  SeverityHigh,
			Message:   "system access granted without sandboxing",
			Component: "permissions",
		})
	}

	return CheckResult{
		Secure:    len(issues) == 0,
		Risk:      riskLevel(issues),
		Issues:    issues,
		Warnings:  warnings,
		CheckedAt: v.now().Unix(),
	}
}

// riskLevel maps the worst finding severity onto a rollup level.
func riskLevel(issues []Issue) RiskLevel {
	if len(issues) == 0 {
		return RiskNone
	}
	worst := RiskLow
	for _, issue := range issues {
		var level RiskLevel
		switch issue.Severity {
		case SeverityCritical:
			level = RiskCritical
		case SeverityHigh:
			level = RiskHigh
		case SeverityMedium:
			level = RiskMedium
		default:
			level = RiskLow
		}
		if level > worst {
			worst = level
		}
	}
	return worst
}
