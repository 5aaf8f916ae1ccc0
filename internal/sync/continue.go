package sync

import (
	"fmt"
	"strings"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/merge"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

const continueConfigPath = ".continue/config.yaml"

type continueRenderer struct{}

func (continueRenderer) ID() string { return toolspec.Continue }

// Render emits .continue/config.yaml with the standards and instructions as rules plus the MCP servers.
func (continueRenderer) Render(in Input) (*plan.ActionPlan, error) {
	servers, err := selectedServers(in)
	if err != nil {
		return nil, err
	}
	doc, err := buildContinueConfig(in, servers)
	if err != nil {
		return nil, err
	}
	data, err := merge.Encode(merge.FormatYAML, doc)
	if err != nil {
		return nil, fmt.Errorf(messages.SyncMarshalFailedFmt, continueConfigPath, err)
	}

	p := plan.New()
	project := p.Project()
	if err := project.WriteFile(continueConfigPath, data); err != nil {
		return nil, err
	}
	if err := ensureGitignore(project, toolspec.Continue); err != nil {
		return nil, err
	}
	return p, nil
}

func buildContinueConfig(in Input, servers []catalog.MCPEntry) (map[string]any, error) {
	rules := make([]any, 0)
	for _, rule := range standardRules(in.Resolved) {
		rules = append(rules, rule)
	}
	for _, fragment := range in.Instructions {
		if content := strings.TrimSpace(fragment.Content); content != "" {
			rules = append(rules, content)
		}
	}

	doc := map[string]any{
		"name":    "agentsync",
		"version": "1.0.0",
		"schema":  "v1",
		"rules":   rules,
	}
	if len(servers) == 0 {
		return doc, nil
	}

	list := make([]any, 0, len(servers))
	for _, server := range servers {
		fields, err := serverFields(server, "url", nil)
		if err != nil {
			return nil, err
		}
		fields["name"] = server.ID
		if server.Transport == catalog.TransportHTTP {
			fields["type"] = "streamable-http"
		}
		list = append(list, fields)
	}
	doc["mcpServers"] = list
	return doc, nil
}
