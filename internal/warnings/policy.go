package warnings

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/redact"
	"github.com/conn-castle/agentsync/internal/resolve"
)

var secretLikeQueryKeys = []string{
	"token",
	"secret",
	"password",
	"passwd",
	"api_key",
	"apikey",
	"access_token",
	"access_key",
	"auth",
}

var envPlaceholder = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}`)

// CheckPolicy returns static policy warnings for the resolved selections. It never touches the network.
func CheckPolicy(resolved resolve.Resolved, cat *catalog.Catalog) []Warning {
	results := make([]Warning, 0)

	if resolved.YOLO() {
		results = append(results, Warning{
			Code:     CodePolicyYOLO,
			Subject:  "approvals.mode",
			Message:  messages.WarningsPolicyYOLOAck,
			Fix:      messages.WarningsPolicyYOLOAckFix,
			Source:   SourceInternal,
			Severity: SeverityWarning,
		})
	}

	if cat == nil {
		return dedupePolicyWarnings(results)
	}
	for _, id := range resolved.MCP {
		server, err := cat.MCPServer(id)
		if err != nil {
			continue
		}

		if detail, ok := findSecretInURL(server.URL); ok {
			results = append(results, Warning{
				Code:     CodePolicySecretInURL,
				Subject:  server.ID,
				Message:  messages.WarningsPolicySecretInURL,
				Fix:      messages.WarningsPolicySecretInURLFix,
				Details:  []string{detail},
				Source:   SourceCatalog,
				Severity: SeverityCritical,
			})
		}

		if details := findLiteralSecrets(server); len(details) > 0 {
			results = append(results, Warning{
				Code:     CodePolicySecretLiteral,
				Subject:  server.ID,
				Message:  fmt.Sprintf(messages.WarningsPolicySecretLiteralFmt, server.ID),
				Fix:      messages.WarningsPolicySecretLiteralFix,
				Details:  details,
				Source:   SourceCatalog,
				Severity: SeverityCritical,
			})
		}
	}

	return dedupePolicyWarnings(results)
}

func findSecretInURL(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}
	if parsed.User != nil {
		username := strings.TrimSpace(parsed.User.Username())
		password, hasPassword := parsed.User.Password()
		if username != "" || (hasPassword && strings.TrimSpace(password) != "") {
			return "URL contains inline userinfo credentials", true
		}
	}

	query := parsed.Query()
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !looksLikeSecretQueryKey(strings.ToLower(strings.TrimSpace(key))) {
			continue
		}
		for _, value := range query[key] {
			if strings.TrimSpace(value) == "" || hasEnvPlaceholder(value) {
				continue
			}
			return fmt.Sprintf("query parameter %q contains a literal secret-like value", key), true
		}
	}

	return "", false
}

// findLiteralSecrets scans env and header values with the redaction patterns.
func findLiteralSecrets(server catalog.MCPEntry) []string {
	var details []string
	scan := func(kind string, values map[string]string) {
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, finding := range redact.Scan(values[key]) {
				details = append(details, fmt.Sprintf("%s %q: %s %s", kind, key, finding.PatternName, finding.RedactedMatch))
			}
		}
	}
	scan("env", server.Env)
	scan("header", server.Headers)
	return details
}

func looksLikeSecretQueryKey(key string) bool {
	for _, candidate := range secretLikeQueryKeys {
		if strings.Contains(key, candidate) {
			return true
		}
	}
	return false
}

func hasEnvPlaceholder(value string) bool {
	return envPlaceholder.MatchString(value)
}

func dedupePolicyWarnings(items []Warning) []Warning {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]Warning, 0, len(items))
	for _, item := range items {
		key := item.Code + "|" + item.Subject + "|" + item.Message
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
