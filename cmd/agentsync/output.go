package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/agentsync/internal/apply"
	"github.com/conn-castle/agentsync/internal/sync"
	"github.com/conn-castle/agentsync/internal/warnings"
)

// noiseMode returns the configured warnings.noise_mode, or "" when no config was loaded.
func noiseMode(result *sync.Result) string {
	if result == nil || result.Project == nil {
		return ""
	}
	return result.Project.Config.Warnings.NoiseMode
}

// printWarnings writes the warnings that survive noise control. Critical ones are red.
func printWarnings(out io.Writer, items []warnings.Warning, mode string) {
	for _, w := range warnings.ApplyNoiseControl(items, mode) {
		if w.Critical() {
			_, _ = fmt.Fprintln(out, color.RedString("%s", w.String()))
			continue
		}
		_, _ = fmt.Fprintln(out, color.YellowString("%s", w.String()))
	}
}

func colorizeDiff(body string) string {
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	if color.NoColor {
		return body
	}
	lines := strings.SplitAfter(body, "\n")
	var builder strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			builder.WriteString(color.New(color.Bold).Sprint(line))
		case strings.HasPrefix(line, "@@"):
			builder.WriteString(color.CyanString("%s", line))
		case strings.HasPrefix(line, "+"):
			builder.WriteString(color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			builder.WriteString(color.RedString("%s", line))
		default:
			builder.WriteString(line)
		}
	}
	return builder.String()
}

var statusColors = map[apply.Status]*color.Color{
	apply.StatusCreated:   color.New(color.FgGreen),
	apply.StatusUpdated:   color.New(color.FgCyan),
	apply.StatusUnchanged: color.New(color.Faint),
	apply.StatusRefused:   color.New(color.FgYellow),
	apply.StatusFailed:    color.New(color.FgRed),
}

func statusLabel(status apply.Status) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(string(status))
	}
	return string(status)
}
