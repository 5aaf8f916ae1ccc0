package skill

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/conn-castle/agentsync/internal/messages"
)

const (
	// MaxNameLength is the maximum accepted length for the front matter name.
	MaxNameLength = 64
	// MaxDescriptionLength is the maximum accepted length for the description.
	MaxDescriptionLength = 1024
	// MaxRecommendedLines is the recommended upper bound for SKILL.md lines.
	MaxRecommendedLines = 500
)

const (
	// FindingCodeNameInvalid reports an invalid skill name format.
	FindingCodeNameInvalid = "SKILL_NAME_INVALID"
	// FindingCodeNameTooLong reports skill names that exceed MaxNameLength.
	FindingCodeNameTooLong = "SKILL_NAME_TOO_LONG"
	// FindingCodeNameMismatch reports names that differ from the catalog id.
	FindingCodeNameMismatch = "SKILL_NAME_ID_MISMATCH"
	// FindingCodeDescriptionTooLong reports descriptions that exceed MaxDescriptionLength.
	FindingCodeDescriptionTooLong = "SKILL_DESCRIPTION_TOO_LONG"
	// FindingCodeUnknownField reports unknown front matter fields.
	FindingCodeUnknownField = "SKILL_FRONTMATTER_UNKNOWN_FIELD"
	// FindingCodeSizeRecommendation reports manifests over MaxRecommendedLines.
	FindingCodeSizeRecommendation = "SKILL_SIZE_RECOMMENDATION"
)

// Finding is a non-blocking manifest diagnostic.
type Finding struct {
	Code    string
	Path    string
	Message string
}

var allowedFields = map[string]struct{}{
	"name":          {},
	"description":   {},
	"license":       {},
	"compatibility": {},
	"metadata":      {},
	"allowed-tools": {},
}

// Validate reports standards warnings for a manifest selected under id.
func Validate(m Manifest, id string) []Finding {
	findings := make([]Finding, 0)
	add := func(code string, message string) {
		findings = append(findings, Finding{Code: code, Path: m.Path, Message: message})
	}

	for _, key := range m.Keys {
		if _, ok := allowedFields[key]; !ok {
			add(FindingCodeUnknownField, fmt.Sprintf(messages.SkillFindingUnknownFieldFmt, key))
		}
	}
	if count := utf8.RuneCountInString(m.Name); count > MaxNameLength {
		add(FindingCodeNameTooLong, fmt.Sprintf(messages.SkillFindingNameTooLongFmt, MaxNameLength, count))
	}
	if !isValidName(m.Name) {
		add(FindingCodeNameInvalid, messages.SkillFindingNameInvalid)
	}
	if id != "" && m.Name != normalizeName(id) {
		add(FindingCodeNameMismatch, fmt.Sprintf(messages.SkillFindingNameMismatchFmt, m.Name, id))
	}
	if count := utf8.RuneCountInString(m.Description); count > MaxDescriptionLength {
		add(FindingCodeDescriptionTooLong, fmt.Sprintf(messages.SkillFindingDescTooLongFmt, MaxDescriptionLength, count))
	}
	if m.LineCount > MaxRecommendedLines {
		add(FindingCodeSizeRecommendation, fmt.Sprintf(messages.SkillFindingSizeFmt, m.LineCount, MaxRecommendedLines))
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Code != findings[j].Code {
			return findings[i].Code < findings[j].Code
		}
		return findings[i].Message < findings[j].Message
	})
	return findings
}

func isValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") || strings.Contains(name, "--") {
		return false
	}
	for _, r := range name {
		if r == '-' || (r >= '0' && r <= '9') || unicode.IsLower(r) {
			continue
		}
		return false
	}
	return true
}
