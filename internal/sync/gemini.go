package sync

import (
	"encoding/json"
	"fmt"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/merge"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/resolve"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

const (
	geminiInstructionsPath = "GEMINI.md"
	geminiSettingsPath     = ".gemini/settings.json"
	// geminiTrustPath is relative to the home directory.
	geminiTrustPath   = ".gemini/trustedFolders.json"
	geminiTrustFolder = "TRUST_FOLDER"
)

type geminiRenderer struct{}

func (geminiRenderer) ID() string { return toolspec.Gemini }

// Render emits GEMINI.md and .gemini/settings.json. When opted in, it also marks the project root as
// trusted in ~/.gemini/trustedFolders.json so Gemini CLI loads project settings.
func (geminiRenderer) Render(in Input) (*plan.ActionPlan, error) {
	servers, err := selectedServers(in)
	if err != nil {
		return nil, err
	}

	p := plan.New()
	project := p.Project()
	steps := []func() error{
		func() error { return project.WriteFile(geminiInstructionsPath, buildInstructions(in)) },
		func() error {
			settings, err := buildGeminiSettings(in.Resolved, servers)
			if err != nil {
				return err
			}
			data, err := merge.EncodeJSON(settings)
			if err != nil {
				return fmt.Errorf(messages.SyncMarshalFailedFmt, geminiSettingsPath, err)
			}
			return project.WriteFile(geminiSettingsPath, data)
		},
		func() error { return ensureGitignore(project, toolspec.Gemini) },
		func() error {
			if !in.Resolved.GeminiTrust || in.Root == "" || geminiTrusted(in) {
				return nil
			}
			patch, err := json.Marshal(map[string]string{in.Root: geminiTrustFolder})
			if err != nil {
				return fmt.Errorf(messages.SyncMarshalFailedFmt, geminiTrustPath, err)
			}
			return p.User().MergeJSON(geminiTrustPath, patch)
		},
	}
	if err := runSteps(steps); err != nil {
		return nil, err
	}
	return p, nil
}

func buildGeminiSettings(resolved resolve.Resolved, servers []catalog.MCPEntry) (map[string]any, error) {
	settings := map[string]any{
		"tools": map[string]any{"approvalMode": resolved.ApprovalMode},
	}
	if len(servers) == 0 {
		return settings, nil
	}
	doc := make(map[string]any, len(servers))
	for _, server := range servers {
		fields, err := serverFields(server, "httpUrl", nil)
		if err != nil {
			return nil, err
		}
		doc[server.ID] = fields
	}
	settings["mcpServers"] = doc
	return settings, nil
}

// geminiTrusted reports whether the trusted folders file already trusts the project root.
func geminiTrusted(in Input) bool {
	current := in.existing(plan.ScopeUser, geminiTrustPath)
	if !current.Exists {
		return false
	}
	decoded, err := merge.DecodeTolerant(merge.FormatJSON, current.Bytes)
	if err != nil {
		return false
	}
	folders, ok := decoded.(map[string]any)
	return ok && folders[in.Root] == geminiTrustFolder
}
