// Package diff renders bounded, redacted unified diffs for planned operations.
package diff

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/agentsync/internal/merge"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/redact"
)

const (
	// DefaultMaxLines caps the rendered diff body.
	DefaultMaxLines = 600
	// DefaultMaxBytes caps the rendered diff body.
	DefaultMaxBytes = 64 * 1024
)

// Mode describes how both sides were compared.
type Mode string

const (
	// ModeJSON compares pretty-printed, key-sorted JSON.
	ModeJSON Mode = "json"
	// ModeText compares raw text.
	ModeText Mode = "text"
	// ModeUnsupported marks binary content; no body is produced.
	ModeUnsupported Mode = "unsupported"
)

// Side names which buffer a finding came from.
type Side string

const (
	SideBefore Side = "before"
	SideAfter  Side = "after"
)

// Finding is a redaction applied to one side of the diff.
type Finding struct {
	redact.Finding
	Side Side `json:"side"`
}

// Options bounds the rendered output. Zero values use the defaults.
type Options struct {
	MaxLines int
	MaxBytes int
}

// Result is a rendered preview for one path.
type Result struct {
	Path      string    `json:"path"`
	Mode      Mode      `json:"mode"`
	Body      string    `json:"body"`
	Truncated bool      `json:"truncated"`
	Reason    string    `json:"truncate_reason,omitempty"`
	Findings  []Finding `json:"findings,omitempty"`

	// BinaryChanged is set for ModeUnsupported results whose content differs.
	BinaryChanged bool `json:"binary_changed,omitempty"`
}

// Changed reports whether the rendered diff has a body or binary content changed.
func (r Result) Changed() bool {
	return r.Body != "" || r.BinaryChanged
}

// Operation renders the diff for a planned operation.
func Operation(op plan.PlannedOperation, opts Options) Result {
	var after []byte
	if op.HasAfter {
		after = op.After
	}
	return Render(op.Path, op.Kind == plan.OpMerge, op.Before(), after, opts)
}

// Render diffs before and after for path. isMerge forces JSON normalization.
func Render(path string, isMerge bool, before []byte, after []byte, opts Options) Result {
	result := Result{Path: path}

	var from, to string
	switch {
	case isMerge || strings.HasSuffix(strings.ToLower(path), ".json"):
		result.Mode = ModeJSON
		from = normalizeJSON(before)
		to = normalizeJSON(after)
	case plan.GuessText(path, before) && plan.GuessText(path, after):
		result.Mode = ModeText
		from = string(before)
		to = string(after)
	default:
		result.Mode = ModeUnsupported
		result.BinaryChanged = !bytes.Equal(before, after)
		return result
	}

	from, beforeFindings := redact.Text(from)
	to, afterFindings := redact.Text(to)
	for _, finding := range beforeFindings {
		result.Findings = append(result.Findings, Finding{Finding: finding, Side: SideBefore})
	}
	for _, finding := range afterFindings {
		result.Findings = append(result.Findings, Finding{Finding: finding, Side: SideAfter})
	}

	body := udiff.Unified("a/"+path, "b/"+path, from, to)
	result.Body, result.Reason = truncate(body, opts)
	result.Truncated = result.Reason != ""
	return result
}

// normalizeJSON pretty-prints data with sorted keys. Unparseable input falls back to its UTF-8 text,
// or "" when it is not valid UTF-8.
func normalizeJSON(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	value, err := merge.Decode(merge.FormatJSON, data)
	if err == nil {
		if encoded, err := merge.EncodeJSON(value); err == nil {
			return string(encoded)
		}
	}
	if utf8.Valid(data) {
		return string(data)
	}
	return ""
}

func truncate(body string, opts Options) (string, string) {
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if body == "" {
		return "", ""
	}

	lines := strings.SplitAfter(body, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	overLines := len(lines) > maxLines
	overBytes := len(body) > maxBytes
	if !overLines && !overBytes {
		return body, ""
	}

	if overLines {
		lines = lines[:maxLines]
	}
	kept := strings.Join(lines, "")
	if len(kept) > maxBytes {
		kept = cutAtLine(kept, maxBytes)
	}
	if kept != "" && !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}

	reason := "lines"
	switch {
	case overLines && overBytes:
		reason = "lines+bytes"
	case overBytes:
		reason = "bytes"
	}
	return kept + fmt.Sprintf(messages.DiffTruncatedFmt, reason) + "\n", reason
}

// cutAtLine returns the longest prefix of s within limit bytes that ends on a line boundary.
// A single oversized first line is cut on a rune boundary instead.
func cutAtLine(s string, limit int) string {
	prefix := s[:limit]
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		return prefix[:idx+1]
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
