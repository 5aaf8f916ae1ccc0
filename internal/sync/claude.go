package sync

import (
	"bytes"
	"fmt"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/merge"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/resolve"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

const (
	claudeInstructionsPath = "CLAUDE.md"
	claudeSettingsPath     = ".claude/settings.json"
	claudeMCPPath          = ".mcp.json"
	claudeSkillsDir        = ".claude/skills"
	claudeAgentsDir        = ".claude/agents"
	// claudeUserConfigPath is relative to the home directory.
	claudeUserConfigPath = ".claude.json"
)

var claudeYOLOTools = []string{"Bash", "Edit", "WebFetch", "Write"}

type claudeRenderer struct{}

func (claudeRenderer) ID() string { return toolspec.Claude }

// Render emits CLAUDE.md, .claude/settings.json, .mcp.json, skills, agents, and, when opted in,
// a user-scope ~/.claude.json registering the selected MCP servers.
func (claudeRenderer) Render(in Input) (*plan.ActionPlan, error) {
	servers, err := selectedServers(in)
	if err != nil {
		return nil, err
	}

	p := plan.New()
	project := p.Project()
	steps := []func() error{
		func() error { return project.WriteFile(claudeInstructionsPath, buildInstructions(in)) },
		func() error {
			data, err := merge.EncodeJSON(buildClaudeSettings(in.Resolved, servers))
			if err != nil {
				return fmt.Errorf(messages.SyncMarshalFailedFmt, claudeSettingsPath, err)
			}
			return project.WriteFile(claudeSettingsPath, data)
		},
		func() error {
			if len(servers) == 0 {
				return nil
			}
			doc, err := claudeServers(servers)
			if err != nil {
				return err
			}
			data, err := merge.EncodeJSON(map[string]any{"mcpServers": doc})
			if err != nil {
				return fmt.Errorf(messages.SyncMarshalFailedFmt, claudeMCPPath, err)
			}
			return project.WriteFile(claudeMCPPath, data)
		},
		func() error { return copySkills(project, claudeSkillsDir, in) },
		func() error { return writeAgents(project, claudeAgentsDir, in) },
		func() error { return ensureGitignore(project, toolspec.Claude) },
		func() error {
			if !in.Resolved.UserClaudeMCP || len(servers) == 0 {
				return nil
			}
			data, ok, err := buildClaudeUserConfig(in, servers)
			if err != nil || !ok {
				return err
			}
			return p.User().WriteFile(claudeUserConfigPath, data)
		},
	}
	if err := runSteps(steps); err != nil {
		return nil, err
	}
	return p, nil
}

func buildClaudeSettings(resolved resolve.Resolved, servers []catalog.MCPEntry) map[string]any {
	settings := make(map[string]any)
	if len(servers) > 0 {
		ids := make([]any, 0, len(servers))
		for _, server := range servers {
			ids = append(ids, server.ID)
		}
		settings["enabledMcpjsonServers"] = ids
	}
	if resolved.YOLO() {
		allow := make([]any, 0, len(claudeYOLOTools)+len(servers))
		for _, tool := range claudeYOLOTools {
			allow = append(allow, tool)
		}
		for _, server := range servers {
			allow = append(allow, fmt.Sprintf("mcp__%s__*", server.ID))
		}
		settings["permissions"] = map[string]any{"allow": allow}
	}
	return settings
}

func claudeServers(servers []catalog.MCPEntry) (map[string]any, error) {
	out := make(map[string]any, len(servers))
	for _, server := range servers {
		fields, err := serverFields(server, "url", nil)
		if err != nil {
			return nil, err
		}
		fields["type"] = server.Transport
		out[server.ID] = fields
	}
	return out, nil
}

// buildClaudeUserConfig adds the selected servers to the existing ~/.claude.json without replacing any
// server the user already registered. ok is false when there is nothing to add or the existing file
// cannot be safely rewritten.
func buildClaudeUserConfig(in Input, servers []catalog.MCPEntry) ([]byte, bool, error) {
	current := in.existing(plan.ScopeUser, claudeUserConfigPath)
	doc := map[string]any{}
	if current.Exists && len(bytes.TrimSpace(current.Bytes)) > 0 {
		decoded, err := merge.DecodeTolerant(merge.FormatJSON, current.Bytes)
		object, isObject := decoded.(map[string]any)
		if err != nil || !isObject {
			in.Log.Warn().Str("path", claudeUserConfigPath).Msg("existing user config is not a JSON object; leaving it untouched")
			return nil, false, nil
		}
		doc = object
	}

	var registered map[string]any
	if raw, ok := doc["mcpServers"]; ok {
		registered, ok = raw.(map[string]any)
		if !ok {
			in.Log.Warn().Str("path", claudeUserConfigPath).Msg("mcpServers is not an object; leaving it untouched")
			return nil, false, nil
		}
	}

	additions, err := claudeServers(servers)
	if err != nil {
		return nil, false, err
	}
	missing := false
	for id := range additions {
		if _, ok := registered[id]; !ok {
			missing = true
			break
		}
	}
	if !missing {
		return nil, false, nil
	}

	doc["mcpServers"] = merge.AddAbsentKeys(registered, additions)
	data, err := merge.EncodeJSON(doc)
	if err != nil {
		return nil, false, fmt.Errorf(messages.SyncMarshalFailedFmt, claudeUserConfigPath, err)
	}
	return data, true, nil
}

func runSteps(steps []func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
