package config

import (
	"fmt"
	"strings"

	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

var validWarningNoiseModes = map[string]struct{}{
	"":               {},
	NoiseModeDefault: {},
	NoiseModeReduce:  {},
	NoiseModeQuiet:   {},
}

func isValidApprovalMode(mode string) bool {
	for _, value := range FieldOptionValues("approvals.mode") {
		if value == mode {
			return true
		}
	}
	return false
}

// Validate ensures the config is consistent. An empty approvals.mode is filled with the default.
func (c *Config) Validate(path string) error {
	if strings.TrimSpace(c.Approvals.Mode) == "" {
		c.Approvals.Mode = ApprovalModeDefault
	}
	if !isValidApprovalMode(c.Approvals.Mode) {
		return fmt.Errorf(messages.ConfigApprovalsModeInvalidFmt, path, FieldOptionValues("approvals.mode"))
	}

	for i, id := range c.Tools.Enabled {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			return fmt.Errorf(messages.ConfigToolIDEmptyFmt, path, i)
		}
		if !toolspec.Known(trimmed) {
			return fmt.Errorf(messages.ConfigToolIDUnknownFmt, path, i, id, toolspec.IDs())
		}
	}

	selections := []struct {
		name string
		ids  []string
	}{
		{"skills", c.Selections.Skills},
		{"agents", c.Selections.Agents},
		{"mcp", c.Selections.MCP},
	}
	for _, selection := range selections {
		for i, id := range selection.ids {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf(messages.ConfigSelectionIDEmptyFmt, path, selection.name, i)
			}
		}
	}

	for key := range c.Standards {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf(messages.ConfigStandardKeyEmptyFmt, path)
		}
	}

	mode := strings.ToLower(strings.TrimSpace(c.Warnings.NoiseMode))
	if _, ok := validWarningNoiseModes[mode]; !ok {
		return fmt.Errorf(messages.ConfigWarningNoiseModeInvalidFmt, path, c.Warnings.NoiseMode)
	}
	return nil
}
