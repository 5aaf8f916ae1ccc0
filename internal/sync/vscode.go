package sync

import (
	"fmt"

	"github.com/conn-castle/agentsync/internal/merge"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

const (
	vscodeMCPPath      = ".vscode/mcp.json"
	vscodeSettingsPath = ".vscode/settings.json"
)

type vscodeRenderer struct{}

func (vscodeRenderer) ID() string { return toolspec.VSCode }

// Render patches the selected servers into .vscode/mcp.json, leaving servers the user added alone.
// VS Code resolves ${env:VAR} at runtime, so ${VAR} placeholders are rewritten to that form.
func (vscodeRenderer) Render(in Input) (*plan.ActionPlan, error) {
	servers, err := selectedServers(in)
	if err != nil {
		return nil, err
	}

	p := plan.New()
	project := p.Project()
	if len(servers) > 0 {
		entries := make(map[string]any, len(servers))
		for _, server := range servers {
			fields, err := serverFields(server, "url", vscodePlaceholder)
			if err != nil {
				return nil, err
			}
			fields["type"] = server.Transport
			entries[server.ID] = fields
		}
		patch, err := merge.EncodeJSON(map[string]any{"servers": entries})
		if err != nil {
			return nil, fmt.Errorf(messages.SyncMarshalFailedFmt, vscodeMCPPath, err)
		}
		if err := project.MergeJSON(vscodeMCPPath, patch); err != nil {
			return nil, err
		}
	}

	if in.Resolved.YOLO() {
		if err := project.MergeJSON(vscodeSettingsPath, []byte(`{"chat.tools.autoApprove": true}`)); err != nil {
			return nil, err
		}
	}

	if err := ensureGitignore(project, toolspec.VSCode); err != nil {
		return nil, err
	}
	return p, nil
}

func vscodePlaceholder(name string) string {
	return "${env:" + name + "}"
}
