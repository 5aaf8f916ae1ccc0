package warnings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleWarnings() []Warning {
	return []Warning{
		{Code: CodeDiffTruncated, NoiseSuppressible: true, Severity: SeverityWarning},
		{Code: CodeApplyPathFailed, NoiseSuppressible: true, Severity: SeverityCritical},
		{Code: CodeUserScopeConsentRequired, Severity: SeverityWarning},
	}
}

func TestApplyNoiseControl_Default(t *testing.T) {
	filtered := ApplyNoiseControl(sampleWarnings(), "")
	require.Len(t, filtered, 3)
	require.Nil(t, ApplyNoiseControl(nil, "default"))
}

func TestApplyNoiseControl_Reduce(t *testing.T) {
	filtered := ApplyNoiseControl(sampleWarnings(), " Reduce ")
	require.Len(t, filtered, 2)
	require.Equal(t, CodeApplyPathFailed, filtered[0].Code)
	require.Equal(t, CodeUserScopeConsentRequired, filtered[1].Code)
}

func TestApplyNoiseControl_Quiet(t *testing.T) {
	filtered := ApplyNoiseControl(sampleWarnings(), "quiet")
	require.Len(t, filtered, 1)
	require.Equal(t, CodeApplyPathFailed, filtered[0].Code)
}

func TestApplyNoiseControl_UnknownMode(t *testing.T) {
	filtered := ApplyNoiseControl(sampleWarnings(), "loud")
	require.Len(t, filtered, 4)
	last := filtered[3]
	require.Equal(t, CodeWarningNoiseModeInvalid, last.Code)
	require.True(t, last.Critical())
	require.Contains(t, last.Message, `"loud"`)
}

func TestWarningString(t *testing.T) {
	w := Warning{Code: "X", Subject: "s", Message: "m", Fix: "f", Details: []string{"d1"}}
	require.Equal(t, "WARNING X: m\n  source: internal\n  severity: warning\n  subject: s\n  fix: f\n  details: d1", w.String())
}
