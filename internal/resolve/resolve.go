// Package resolve canonicalizes raw configuration into the deterministic form every renderer consumes.
package resolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/agentsync/internal/config"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

// ErrUnknownTool marks a tool id that no tool specification declares.
var ErrUnknownTool = errors.New("unknown tool")

// DefaultLanguage fills standards.language when the config leaves it unset.
const DefaultLanguage = "English"

// Overrides are CLI-supplied replacements. A nil Tools slice means no override.
type Overrides struct {
	Tools []string
}

// Resolved is the canonical intermediate configuration.
type Resolved struct {
	Tools         []string          `json:"tools"`
	Standards     map[string]string `json:"standards"`
	Skills        []string          `json:"skills"`
	Agents        []string          `json:"agents"`
	MCP           []string          `json:"mcp"`
	ApprovalMode  string            `json:"approval_mode"`
	UserClaudeMCP bool              `json:"user_claude_mcp"`
	GeminiTrust   bool              `json:"user_gemini_trust"`
}

// Build resolves cfg with overrides applied. Lists are trimmed, sorted, and deduplicated, so inputs
// that differ only in ordering resolve identically.
func Build(cfg config.Config, overrides Overrides) (Resolved, error) {
	tools := cfg.Tools.Enabled
	if overrides.Tools != nil {
		tools = overrides.Tools
	}
	resolvedTools := canonicalList(tools)
	for _, id := range resolvedTools {
		if !toolspec.Known(id) {
			return Resolved{}, fmt.Errorf("%w: "+messages.ResolveUnknownToolFmt, ErrUnknownTool, id, toolspec.IDs())
		}
	}

	standards := make(map[string]string, len(cfg.Standards)+1)
	for key, value := range cfg.Standards {
		standards[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if strings.TrimSpace(standards["language"]) == "" {
		standards["language"] = DefaultLanguage
	}

	mode := strings.TrimSpace(cfg.Approvals.Mode)
	if mode == "" {
		mode = config.ApprovalModeDefault
	}

	return Resolved{
		Tools:         resolvedTools,
		Standards:     standards,
		Skills:        canonicalList(cfg.Selections.Skills),
		Agents:        canonicalList(cfg.Selections.Agents),
		MCP:           canonicalList(cfg.Selections.MCP),
		ApprovalMode:  mode,
		UserClaudeMCP: cfg.User.ClaudeMCP,
		GeminiTrust:   cfg.User.GeminiTrust,
	}, nil
}

// Language returns the standards language.
func (r Resolved) Language() string {
	if language := r.Standards["language"]; language != "" {
		return language
	}
	return DefaultLanguage
}

// YOLO reports whether tools may act without asking.
func (r Resolved) YOLO() bool {
	return r.ApprovalMode == config.ApprovalModeYOLO
}

// StandardKeys returns the standards keys in sorted order.
func (r Resolved) StandardKeys() []string {
	keys := make([]string, 0, len(r.Standards))
	for key := range r.Standards {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Canonical renders r as indented JSON with a trailing newline. Map keys are sorted by encoding/json.
func (r Resolved) Canonical() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func canonicalList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	sort.Strings(out)
	return out
}
