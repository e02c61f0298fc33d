package security

import "fmt"

// Default resource limits applied when a module declares no permissions.
const (
	DefaultMemoryLimitMB  = 128
	DefaultCPULimitPct    = 50
	DefaultTimeoutSeconds = 30
)

// Signature policy.
const (
	SignatureExpirySeconds = 365 * 24 * 60 * 60
	SignatureAlgorithm     = "SHA256-RSA"
)

// DefaultDeniedPaths lists filesystem roots a sandboxed module may never touch.
var DefaultDeniedPaths = []string{"/etc", "/usr/bin", "/bin"}

// Signature holds the cryptographic identity of a module's code.
type Signature struct {
	CodeHash  string
	Signature string
	PublicKey string
	Timestamp int64
	Algorithm string
}

// Permissions is the grant set a module is allowed to exercise at runtime.
type Permissions struct {
	FilesystemAccess bool
	NetworkAccess    bool
	ProcessSpawn     bool
	EnvAccess        bool
	SystemAccess     bool
	MemoryLimitMB    uint64
	CPULimitPercent  uint8
	TimeoutSeconds   uint64
}

// DefaultPermissions returns the deny-everything grant set with stock limits.
func DefaultPermissions() Permissions {
	return Permissions{
		MemoryLimitMB:   DefaultMemoryLimitMB,
		CPULimitPercent: DefaultCPULimitPct,
		TimeoutSeconds:  DefaultTimeoutSeconds,
	}
}

// ReviewState enumerates the stages of a module's code review.
type ReviewState int

const (
	ReviewPending ReviewState = iota
	ReviewInProgress
	ReviewApproved
	ReviewRejected
)

// String returns the manifest-facing spelling of the state.
func (s ReviewState) String() string {
	switch s {
	case ReviewPending:
		return "pending"
	case ReviewInProgress:
		return "in_progress"
	case ReviewApproved:
		return "approved"
	case ReviewRejected:
		return "rejected"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseReviewState converts a manifest spelling back into a ReviewState.
func ParseReviewState(s string) (ReviewState, error) {
	switch s {
	case "pending":
		return ReviewPending, nil
	case "in_progress":
		return ReviewInProgress, nil
	case "approved":
		return ReviewApproved, nil
	case "rejected":
		return ReviewRejected, nil
	default:
		return ReviewPending, fmt.Errorf("invalid review state %q", s)
	}
}

// ReviewStatus records where a module stands in code review. Reviewer and
// Reason are only meaningful for the approved and rejected states.
type ReviewStatus struct {
	State     ReviewState
	Reviewer  string
	Reason    string
	Timestamp int64
}

// SupplyChain records where a module's code came from and how it was built.
type SupplyChain struct {
	SourceURL         string
	CommitHash        string
	BuildTimestamp    int64
	Dependencies      map[string]string
	BuildEnvironment  string
	VerifierSignature string
}

// SandboxConfig controls how a module instance is isolated when created
// through the secure path.
type SandboxConfig struct {
	Enabled             bool
	FilesystemIsolation bool
	NetworkIsolation    bool
	ProcessIsolation    bool
	ReadOnlyFS          bool
	AllowedPaths        []string
	DeniedPaths         []string
}

// DefaultSandbox returns the fully isolated configuration.
func DefaultSandbox() SandboxConfig {
	denied := make([]string, len(DefaultDeniedPaths))
	copy(denied, DefaultDeniedPaths)
	return SandboxConfig{
		Enabled:             true,
		FilesystemIsolation: true,
		NetworkIsolation:    true,
		ProcessIsolation:    true,
		ReadOnlyFS:          true,
		DeniedPaths:         denied,
	}
}

// Profile bundles everything the validator needs to judge one module.
type Profile struct {
	Signature   *Signature
	Permissions Permissions
	Review      ReviewStatus
	SupplyChain *SupplyChain
	Sandbox     SandboxConfig
}

// DefaultProfile returns the profile assigned to modules registered without
// explicit security metadata: unsigned, unreviewed, no grants, sandboxed.
func DefaultProfile() Profile {
	return Profile{
		Permissions: DefaultPermissions(),
		Sandbox:     DefaultSandbox(),
	}
}

// Approved reports whether the profile passed code review.
func (p Profile) Approved() bool {
	return p.Review.State == ReviewApproved
}

// Report is the per-module row of a registry-wide security report.
type Report struct {
	Name                string
	HasSignature        bool
	SignatureVerified   bool
	IsApproved          bool
	HasSupplyChain      bool
	SupplyChainVerified bool
	Permissions         Permissions
	SandboxEnabled      bool
}

// Severity grades a single audit finding.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// RiskLevel is the rollup of all findings for one module.
type RiskLevel int

const (
	RiskNone RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

func (r RiskLevel) String() string {
	switch r {
	case RiskNone:
		return "none"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// Issue is a blocking audit finding.
type Issue struct {
	Severity  Severity
	Message   string
	Component string
}

// Warning is a non-blocking audit finding.
type Warning struct {
	Message   string
	Component string
}

// CheckResult is the outcome of a comprehensive check on one module.
type CheckResult struct {
	Secure    bool
	Risk      RiskLevel
	Issues    []Issue
	Warnings  []Warning
	CheckedAt int64
}

// Summary renders the result as a single log-friendly line.
func (r CheckResult) Summary() string {
	verdict := "PASSED"
	if !r.Secure {
		verdict = "FAILED"
	}
	return fmt.Sprintf("security check %s: %d issues, %d warnings, risk level: %s",
		verdict, len(r.Issues), len(r.Warnings), r.Risk)
}

// HasRisk reports whether the result demands operator attention.
func (r CheckResult) HasRisk() bool {
	return r.Risk >= RiskMedium
}
