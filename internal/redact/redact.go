// Package redact finds secret-shaped literals in preview text and masks them.
// Findings only sanitize what is shown to an operator; they never block planning or application.
package redact

import (
	"regexp"
	"sort"
	"strings"
)

// Severity ranks how likely a finding is a live credential.
type Severity string

const (
	// SeverityHigh marks provider-issued key formats.
	SeverityHigh Severity = "high"
	// SeverityMedium marks generic token shapes.
	SeverityMedium Severity = "medium"
)

// Pattern is a named secret matcher.
type Pattern struct {
	Name     string
	Severity Severity
	Regexp   *regexp.Regexp
}

var defaultPatterns = []Pattern{
	{Name: "aws_access_key", Severity: SeverityHigh, Regexp: regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
	{Name: "generic_token", Severity: SeverityMedium, Regexp: regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`)},
	{Name: "github_token", Severity: SeverityHigh, Regexp: regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`)},
}

// Finding is one detected secret occurrence. Start and End are byte offsets into the scanned text.
type Finding struct {
	PatternName   string   `json:"pattern_name"`
	RedactedMatch string   `json:"redacted_match"`
	Start         int      `json:"start"`
	End           int      `json:"end"`
	Severity      Severity `json:"severity"`
}

// Mask renders match as first4...last4, or **** when it is too short to reveal anything safely.
func Mask(match string) string {
	if len(match) <= 8 {
		return "****"
	}
	return match[:4] + "..." + match[len(match)-4:]
}

// Scan returns non-overlapping findings in text ordered by offset.
// When matches overlap the earliest wins, then the longest.
func Scan(text string) []Finding {
	return ScanWith(text, defaultPatterns)
}

// ScanWith is Scan over an explicit pattern set.
func ScanWith(text string, patterns []Pattern) []Finding {
	var all []Finding
	for _, pattern := range patterns {
		for _, loc := range pattern.Regexp.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			all = append(all, Finding{
				PatternName:   pattern.Name,
				RedactedMatch: Mask(match),
				Start:         loc[0],
				End:           loc[1],
				Severity:      pattern.Severity,
			})
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		return all[i].End > all[j].End
	})

	out := make([]Finding, 0, len(all))
	end := -1
	for _, finding := range all {
		if finding.Start < end {
			continue
		}
		out = append(out, finding)
		end = finding.End
	}
	return out
}

// Text replaces every finding in text with its mask and returns the findings.
func Text(text string) (string, []Finding) {
	findings := Scan(text)
	if len(findings) == 0 {
		return text, nil
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, finding := range findings {
		b.WriteString(text[last:finding.Start])
		b.WriteString(finding.RedactedMatch)
		last = finding.End
	}
	b.WriteString(text[last:])
	return b.String(), findings
}
