package warnings

import (
	"fmt"
	"strings"

	"github.com/conn-castle/agentsync/internal/config"
	"github.com/conn-castle/agentsync/internal/messages"
)

// ApplyNoiseControl applies a conservative noise filter to warning output.
// mode is the warnings.noise_mode value from config.
func ApplyNoiseControl(items []Warning, mode string) []Warning {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	switch normalized {
	case "", config.NoiseModeDefault:
		if len(items) == 0 {
			return nil
		}
		return append([]Warning(nil), items...)
	case config.NoiseModeReduce:
		filtered := make([]Warning, 0, len(items))
		for _, item := range items {
			if item.NoiseSuppressible && !item.Critical() {
				continue
			}
			filtered = append(filtered, item)
		}
		return filtered
	case config.NoiseModeQuiet:
		var filtered []Warning
		for _, item := range items {
			if item.Critical() {
				filtered = append(filtered, item)
			}
		}
		return filtered
	}

	out := append([]Warning(nil), items...)
	out = append(out, Warning{
		Code:     CodeWarningNoiseModeInvalid,
		Subject:  "warnings.noise_mode",
		Message:  fmt.Sprintf(messages.WarningsNoiseModeInvalidFmt, mode, config.NoiseModeDefault, config.NoiseModeReduce, config.NoiseModeQuiet),
		Fix:      messages.WarningsNoiseModeInvalidFix,
		Source:   SourceInternal,
		Severity: SeverityCritical,
	})
	return out
}
