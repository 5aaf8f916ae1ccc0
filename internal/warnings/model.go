package warnings

import "fmt"

// Warning codes.
const (
	CodeUserScopeConsentRequired = "USER_SCOPE_CONSENT_REQUIRED"
	CodeApplyPathFailed          = "APPLY_PATH_FAILED"
	CodeSecretRedacted           = "DIFF_SECRET_REDACTED"
	CodeDiffTruncated            = "DIFF_TRUNCATED"
	CodeSkillManifest            = "SKILL_MANIFEST_CONVENTION"
	CodeWarningNoiseModeInvalid  = "WARNING_NOISE_MODE_INVALID"
	CodePolicySecretInURL        = "POLICY_SECRET_IN_URL"
	CodePolicySecretLiteral      = "POLICY_SECRET_LITERAL"
	CodePolicyYOLO               = "POLICY_YOLO_ENABLED"
)

// Source labels where a warning originates.
const (
	SourceInternal   = "internal"
	SourceFilesystem = "filesystem"
	SourceCatalog    = "catalog"
)

// Severity labels whether a warning should be considered critical.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Warning represents a warning message.
type Warning struct {
	Code     string
	Subject  string
	Message  string
	Fix      string
	Details  []string
	Source   string
	Severity string
	// NoiseSuppressible marks warnings that can be hidden by conservative noise controls.
	// Critical warnings are never suppressed even if this flag is true.
	NoiseSuppressible bool
}

func (w Warning) String() string {
	s := "WARNING " + w.Code + ": " + w.Message + "\n"
	s += fmt.Sprintf("  source: %s\n", w.sourceOrDefault())
	s += fmt.Sprintf("  severity: %s\n", w.severityOrDefault())
	s += "  subject: " + w.Subject + "\n"
	s += "  fix: " + w.Fix
	for _, d := range w.Details {
		s += "\n  details: " + d
	}
	return s
}

// Critical reports whether the warning has critical severity.
func (w Warning) Critical() bool {
	return w.severityOrDefault() == SeverityCritical
}

func (w Warning) sourceOrDefault() string {
	if w.Source == "" {
		return SourceInternal
	}
	return w.Source
}

func (w Warning) severityOrDefault() string {
	if w.Severity == "" {
		return SeverityWarning
	}
	return w.Severity
}
