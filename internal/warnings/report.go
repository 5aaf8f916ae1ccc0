package warnings

import (
	"fmt"

	"github.com/conn-castle/agentsync/internal/apply"
	"github.com/conn-castle/agentsync/internal/diff"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/skill"
)

// FromReport turns refused and failed apply results into warnings, in report order.
func FromReport(report apply.Report) []Warning {
	var out []Warning
	for _, result := range report.Results {
		switch result.Status {
		case apply.StatusRefused:
			out = append(out, Warning{
				Code:     CodeUserScopeConsentRequired,
				Subject:  result.Path,
				Message:  fmt.Sprintf(messages.ApplyConsentRefusedFmt, result.Path),
				Fix:      messages.WarningsConsentRequiredFix,
				Source:   SourceInternal,
				Severity: SeverityWarning,
			})
		case apply.StatusFailed:
			w := Warning{
				Code:     CodeApplyPathFailed,
				Subject:  result.Path,
				Message:  fmt.Sprintf(messages.WarningsApplyPathFailedFmt, result.Kind),
				Fix:      messages.WarningsApplyPathFailedFix,
				Source:   SourceFilesystem,
				Severity: SeverityCritical,
			}
			if result.Err != nil {
				w.Details = []string{result.Err.Error()}
			}
			out = append(out, w)
		}
	}
	return out
}

// FromDiff reports redactions and truncations in rendered previews.
// Details name the pattern and masked value, never the secret itself.
func FromDiff(results []diff.Result) []Warning {
	var out []Warning
	for _, result := range results {
		if len(result.Findings) > 0 {
			details := make([]string, 0, len(result.Findings))
			for _, finding := range result.Findings {
				details = append(details, fmt.Sprintf("%s side: %s %s", finding.Side, finding.PatternName, finding.RedactedMatch))
			}
			out = append(out, Warning{
				Code:     CodeSecretRedacted,
				Subject:  result.Path,
				Message:  fmt.Sprintf(messages.WarningsSecretRedactedFmt, len(result.Findings)),
				Fix:      messages.WarningsSecretRedactedFix,
				Details:  details,
				Source:   SourceInternal,
				Severity: SeverityCritical,
			})
		}
		if result.Truncated {
			out = append(out, Warning{
				Code:              CodeDiffTruncated,
				Subject:           result.Path,
				Message:           fmt.Sprintf(messages.WarningsDiffTruncatedFmt, result.Reason),
				Fix:               messages.WarningsDiffTruncatedFix,
				Source:            SourceInternal,
				Severity:          SeverityWarning,
				NoiseSuppressible: true,
			})
		}
	}
	return out
}

// FromSkillFindings reports manifest convention findings for the skill selected as id.
func FromSkillFindings(id string, findings []skill.Finding) []Warning {
	if len(findings) == 0 {
		return nil
	}
	details := make([]string, 0, len(findings))
	for _, finding := range findings {
		details = append(details, finding.Code+": "+finding.Message)
	}
	return []Warning{{
		Code:              CodeSkillManifest,
		Subject:           id,
		Message:           messages.WarningsSkillManifest,
		Fix:               messages.WarningsSkillManifestFix,
		Details:           details,
		Source:            SourceCatalog,
		Severity:          SeverityWarning,
		NoiseSuppressible: true,
	}}
}
