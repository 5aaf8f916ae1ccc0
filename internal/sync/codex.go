package sync

import (
	"fmt"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/merge"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/resolve"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

const (
	codexInstructionsPath = "AGENTS.md"
	codexConfigPath       = ".codex/config.toml"
	codexSkillsDir        = ".codex/skills"
)

type codexRenderer struct{}

func (codexRenderer) ID() string { return toolspec.Codex }

// Render emits AGENTS.md, .codex/config.toml, and skills.
func (codexRenderer) Render(in Input) (*plan.ActionPlan, error) {
	servers, err := selectedServers(in)
	if err != nil {
		return nil, err
	}

	p := plan.New()
	project := p.Project()
	steps := []func() error{
		func() error { return project.WriteFile(codexInstructionsPath, buildInstructions(in)) },
		func() error {
			doc, err := buildCodexConfig(in.Resolved, servers)
			if err != nil || len(doc) == 0 {
				return err
			}
			data, err := merge.Encode(merge.FormatTOML, doc)
			if err != nil {
				return fmt.Errorf(messages.SyncMarshalFailedFmt, codexConfigPath, err)
			}
			return project.WriteFile(codexConfigPath, data)
		},
		func() error { return copySkills(project, codexSkillsDir, in) },
		func() error { return ensureGitignore(project, toolspec.Codex) },
	}
	if err := runSteps(steps); err != nil {
		return nil, err
	}
	return p, nil
}

func buildCodexConfig(resolved resolve.Resolved, servers []catalog.MCPEntry) (map[string]any, error) {
	doc := make(map[string]any)
	if resolved.YOLO() {
		doc["approval_policy"] = "never"
		doc["sandbox_mode"] = "danger-full-access"
	}
	if len(servers) == 0 {
		return doc, nil
	}

	tables := make(map[string]any, len(servers))
	for _, server := range servers {
		fields, err := serverFields(server, "url", nil)
		if err != nil {
			return nil, err
		}
		if headers, ok := fields["headers"]; ok {
			delete(fields, "headers")
			fields["http_headers"] = headers
		}
		tables[server.ID] = fields
	}
	doc["mcp_servers"] = tables
	return doc, nil
}
