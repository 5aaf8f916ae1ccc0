package sync

import (
	"fmt"
	"strings"

	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/resolve"
)

// buildInstructions renders the shared instruction document: a generated-file marker, the standards
// section, then every fragment in file-name order.
func buildInstructions(in Input) []byte {
	var builder strings.Builder
	builder.WriteString(messages.SyncGeneratedMarkdownHeader)
	builder.WriteString("\n\n")
	builder.WriteString(messages.SyncStandardsHeading)
	builder.WriteString("\n\n")
	for _, rule := range standardRules(in.Resolved) {
		builder.WriteString("- ")
		builder.WriteString(rule)
		builder.WriteString("\n")
	}

	for _, fragment := range in.Instructions {
		content := strings.TrimSpace(fragment.Content)
		if content == "" {
			continue
		}
		builder.WriteString("\n")
		builder.WriteString(content)
		builder.WriteString("\n")
	}
	return []byte(builder.String())
}

// standardRules lists the language rule first, then the remaining standards in key order.
func standardRules(resolved resolve.Resolved) []string {
	rules := []string{fmt.Sprintf(messages.SyncLanguageRuleFmt, resolved.Language())}
	for _, key := range resolved.StandardKeys() {
		if key == "language" {
			continue
		}
		rules = append(rules, fmt.Sprintf(messages.SyncStandardRuleFmt, key, resolved.Standards[key]))
	}
	return rules
}
