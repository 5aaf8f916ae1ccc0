package sync

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/config"
	"github.com/conn-castle/agentsync/internal/fetch"
	"github.com/conn-castle/agentsync/internal/merge"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/resolve"
	"github.com/conn-castle/agentsync/internal/testutil"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{MCP: []catalog.MCPEntry{
		{
			ID:        "github",
			Transport: catalog.TransportStdio,
			Command:   "github-mcp",
			Args:      []string{"stdio"},
			Env:       map[string]string{"GITHUB_TOKEN": "${GITHUB_TOKEN}"},
		},
		{
			ID:        "docs",
			Transport: catalog.TransportHTTP,
			URL:       "https://docs.example.com/mcp",
			Headers:   map[string]string{"Authorization": "Bearer ${DOCS_TOKEN}"},
		},
	}}
}

func testInput(mode string) Input {
	return Input{
		Root: "/work/project",
		Resolved: resolve.Resolved{
			Tools:        toolspec.IDs(),
			Standards:    map[string]string{"language": "German", "style": "terse"},
			MCP:          []string{"docs", "github"},
			ApprovalMode: mode,
		},
		Instructions: []config.InstructionFile{
			{Name: "00-base.md", Content: "Prefer small diffs.\n"},
			{Name: "10-empty.md", Content: "  \n"},
		},
		Agents:  []config.AgentFile{{ID: "reviewer", Content: "Review carefully.\n"}},
		Catalog: testCatalog(),
	}
}

func render(t *testing.T, id string, in Input) *plan.ActionPlan {
	t.Helper()
	r, ok := RendererFor(id)
	require.True(t, ok)
	require.Equal(t, id, r.ID())
	p, err := r.Render(in)
	require.NoError(t, err)
	for _, action := range p.Actions() {
		require.NotEqual(t, plan.ActionNoop, action.Kind(), "renderers never emit noop")
		if action.Kind() != plan.ActionEnsureGitignore {
			require.NotEmpty(t, action.Path())
		}
	}
	return p
}

func find(p *plan.ActionPlan, kind plan.ActionKind, path string) (plan.Action, bool) {
	for _, action := range p.Actions() {
		if action.Kind() == kind && action.Path() == path {
			return action, true
		}
	}
	return plan.Action{}, false
}

func decodeJSON(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func gitignorePatterns(p *plan.ActionPlan) []string {
	var out []string
	for _, action := range p.Actions() {
		if action.Kind() == plan.ActionEnsureGitignore {
			out = append(out, action.Pattern())
		}
	}
	return out
}

func TestClaudeRenderer(t *testing.T) {
	p := render(t, toolspec.Claude, testInput(config.ApprovalModeYOLO))

	instructions, ok := find(p, plan.ActionWriteFile, "CLAUDE.md")
	require.True(t, ok)
	text := string(instructions.Content())
	assert.Contains(t, text, "- Always respond in German.\n- style: terse\n")
	assert.Contains(t, text, "\nPrefer small diffs.\n")

	settings, ok := find(p, plan.ActionWriteFile, ".claude/settings.json")
	require.True(t, ok)
	decoded := decodeJSON(t, settings.Content())
	assert.Equal(t, []any{"docs", "github"}, decoded["enabledMcpjsonServers"])
	allow := decoded["permissions"].(map[string]any)["allow"].([]any)
	assert.Contains(t, allow, "mcp__github__*")
	assert.Contains(t, allow, "Bash")

	mcp, ok := find(p, plan.ActionWriteFile, ".mcp.json")
	require.True(t, ok)
	servers := decodeJSON(t, mcp.Content())["mcpServers"].(map[string]any)
	assert.Equal(t, map[string]any{
		"type":    "stdio",
		"command": "github-mcp",
		"args":    []any{"stdio"},
		"env":     map[string]any{"GITHUB_TOKEN": "${GITHUB_TOKEN}"},
	}, servers["github"])
	assert.Equal(t, "https://docs.example.com/mcp", servers["docs"].(map[string]any)["url"])

	agent, ok := find(p, plan.ActionWriteFile, ".claude/agents/reviewer.md")
	require.True(t, ok)
	assert.Equal(t, "Review carefully.\n", string(agent.Content()))

	assert.ElementsMatch(t, []string{".claude/", ".mcp.json", "CLAUDE.md"}, gitignorePatterns(p))
	for _, action := range p.Actions() {
		assert.Equal(t, plan.ScopeProject, action.Scope(), "no user-scope actions without opt-in")
	}
}

func TestClaudeRenderer_DefaultModeHasNoPermissions(t *testing.T) {
	p := render(t, toolspec.Claude, testInput(config.ApprovalModeDefault))
	settings, ok := find(p, plan.ActionWriteFile, ".claude/settings.json")
	require.True(t, ok)
	_, hasPermissions := decodeJSON(t, settings.Content())["permissions"]
	assert.False(t, hasPermissions)
}

func TestClaudeRenderer_UserConfigAddsOnlyAbsentServers(t *testing.T) {
	in := testInput(config.ApprovalModeDefault)
	in.Resolved.UserClaudeMCP = true
	in.Existing = func(scope plan.Scope, path string) plan.ExistingFile {
		if scope != plan.ScopeUser || path != claudeUserConfigPath {
			return plan.ExistingFile{}
		}
		return plan.ExistingFile{Exists: true, Bytes: []byte(`{
  // personal setup
  "theme": "dark",
  "mcpServers": {"github": {"command": "my-own-github"}}
}`)}
	}

	p := render(t, toolspec.Claude, in)
	action, ok := find(p, plan.ActionWriteFile, claudeUserConfigPath)
	require.True(t, ok)
	assert.Equal(t, plan.ScopeUser, action.Scope())

	doc := decodeJSON(t, action.Content())
	assert.Equal(t, "dark", doc["theme"])
	servers := doc["mcpServers"].(map[string]any)
	assert.Equal(t, map[string]any{"command": "my-own-github"}, servers["github"], "existing entries are never replaced")
	assert.Contains(t, servers, "docs")
}

func TestClaudeRenderer_UserConfigSkippedWhenNothingToAdd(t *testing.T) {
	in := testInput(config.ApprovalModeDefault)
	in.Resolved.UserClaudeMCP = true
	in.Existing = func(scope plan.Scope, path string) plan.ExistingFile {
		return plan.ExistingFile{Exists: true, Bytes: []byte(`{"mcpServers": {"github": {}, "docs": {}}}`)}
	}
	p := render(t, toolspec.Claude, in)
	_, ok := find(p, plan.ActionWriteFile, claudeUserConfigPath)
	assert.False(t, ok)

	in.Existing = func(scope plan.Scope, path string) plan.ExistingFile {
		return plan.ExistingFile{Exists: true, Bytes: []byte(`[1, 2]`)}
	}
	p = render(t, toolspec.Claude, in)
	_, ok = find(p, plan.ActionWriteFile, claudeUserConfigPath)
	assert.False(t, ok, "a non-object user config is left untouched")
}

func TestCodexRenderer(t *testing.T) {
	p := render(t, toolspec.Codex, testInput(config.ApprovalModeYOLO))

	action, ok := find(p, plan.ActionWriteFile, ".codex/config.toml")
	require.True(t, ok)
	decoded, err := merge.Decode(merge.FormatTOML, action.Content())
	require.NoError(t, err)
	doc := decoded.(map[string]any)
	assert.Equal(t, "never", doc["approval_policy"])
	assert.Equal(t, "danger-full-access", doc["sandbox_mode"])
	servers := doc["mcp_servers"].(map[string]any)
	docs := servers["docs"].(map[string]any)
	assert.Equal(t, "https://docs.example.com/mcp", docs["url"])
	assert.Equal(t, map[string]any{"Authorization": "Bearer ${DOCS_TOKEN}"}, docs["http_headers"])
	assert.Equal(t, "github-mcp", servers["github"].(map[string]any)["command"])

	_, ok = find(p, plan.ActionWriteFile, "AGENTS.md")
	assert.True(t, ok)
}

func TestCodexRenderer_NoConfigWhenEmpty(t *testing.T) {
	in := testInput(config.ApprovalModeDefault)
	in.Resolved.MCP = nil
	p := render(t, toolspec.Codex, in)
	_, ok := find(p, plan.ActionWriteFile, ".codex/config.toml")
	assert.False(t, ok)
}

func TestGeminiRenderer(t *testing.T) {
	p := render(t, toolspec.Gemini, testInput(config.ApprovalModeDefault))
	action, ok := find(p, plan.ActionWriteFile, ".gemini/settings.json")
	require.True(t, ok)
	doc := decodeJSON(t, action.Content())
	assert.Equal(t, map[string]any{"approvalMode": "default"}, doc["tools"])
	servers := doc["mcpServers"].(map[string]any)
	assert.Equal(t, "https://docs.example.com/mcp", servers["docs"].(map[string]any)["httpUrl"])
}

func TestGeminiRenderer_TrustFolder(t *testing.T) {
	in := testInput(config.ApprovalModeDefault)
	in.Resolved.GeminiTrust = true

	p := render(t, toolspec.Gemini, in)
	action, ok := find(p, plan.ActionMergeJSON, geminiTrustPath)
	require.True(t, ok)
	assert.Equal(t, plan.ScopeUser, action.Scope())
	assert.Equal(t, map[string]any{"/work/project": "TRUST_FOLDER"}, decodeJSON(t, action.Patch()))

	in.Existing = func(scope plan.Scope, path string) plan.ExistingFile {
		return plan.ExistingFile{Exists: true, Bytes: []byte(`{"/work/project": "TRUST_FOLDER"}`)}
	}
	p = render(t, toolspec.Gemini, in)
	_, ok = find(p, plan.ActionMergeJSON, geminiTrustPath)
	assert.False(t, ok, "already trusted")
}

func TestVSCodeRenderer(t *testing.T) {
	p := render(t, toolspec.VSCode, testInput(config.ApprovalModeYOLO))

	action, ok := find(p, plan.ActionMergeJSON, ".vscode/mcp.json")
	require.True(t, ok)
	servers := decodeJSON(t, action.Patch())["servers"].(map[string]any)
	github := servers["github"].(map[string]any)
	assert.Equal(t, "stdio", github["type"])
	assert.Equal(t, map[string]any{"GITHUB_TOKEN": "${env:GITHUB_TOKEN}"}, github["env"])
	docs := servers["docs"].(map[string]any)
	assert.Equal(t, map[string]any{"Authorization": "Bearer ${env:DOCS_TOKEN}"}, docs["headers"])

	settings, ok := find(p, plan.ActionMergeJSON, ".vscode/settings.json")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"chat.tools.autoApprove": true}, decodeJSON(t, settings.Patch()))
}

func TestVSCodeRenderer_NothingButGitignoreWithoutServers(t *testing.T) {
	in := testInput(config.ApprovalModeDefault)
	in.Resolved.MCP = nil
	p := render(t, toolspec.VSCode, in)
	require.Equal(t, 1, p.Len())
	assert.Equal(t, []string{".vscode/mcp.json"}, gitignorePatterns(p))
}

func TestContinueRenderer(t *testing.T) {
	p := render(t, toolspec.Continue, testInput(config.ApprovalModeDefault))
	action, ok := find(p, plan.ActionWriteFile, ".continue/config.yaml")
	require.True(t, ok)
	decoded, err := merge.Decode(merge.FormatYAML, action.Content())
	require.NoError(t, err)
	doc := decoded.(map[string]any)
	assert.Equal(t, "v1", doc["schema"])
	assert.Equal(t, []any{"Always respond in German.", "style: terse", "Prefer small diffs."}, doc["rules"])
	servers := doc["mcpServers"].([]any)
	require.Len(t, servers, 2)
	assert.Equal(t, "docs", servers[0].(map[string]any)["name"])
	assert.Equal(t, "streamable-http", servers[0].(map[string]any)["type"])
	assert.Equal(t, "github", servers[1].(map[string]any)["name"])
}

func TestRenderers_Deterministic(t *testing.T) {
	for _, id := range toolspec.IDs() {
		t.Run(id, func(t *testing.T) {
			first, err := json.Marshal(render(t, id, testInput(config.ApprovalModeYOLO)))
			require.NoError(t, err)
			second, err := json.Marshal(render(t, id, testInput(config.ApprovalModeYOLO)))
			require.NoError(t, err)
			assert.Equal(t, string(first), string(second))
		})
	}
}

func TestRenderers_UnknownMCPIsNotFound(t *testing.T) {
	in := testInput(config.ApprovalModeDefault)
	in.Resolved.MCP = []string{"missing"}
	for _, id := range toolspec.IDs() {
		r, _ := RendererFor(id)
		_, err := r.Render(in)
		require.Error(t, err, id)
		assert.True(t, errors.Is(err, catalog.ErrNotFound), id)
		assert.Contains(t, err.Error(), "ID not found")
	}
}

func TestRenderers_UnsupportedTransport(t *testing.T) {
	in := testInput(config.ApprovalModeDefault)
	in.Catalog = &catalog.Catalog{MCP: []catalog.MCPEntry{{ID: "docs", Transport: "sse"}, {ID: "github", Transport: "sse"}}}
	_, err := claudeRenderer{}.Render(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport")
}

func TestRenderAll_UnknownTool(t *testing.T) {
	_, err := RenderAll([]string{"notepad"}, testInput(config.ApprovalModeDefault))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notepad")
}

func TestCopySkills(t *testing.T) {
	project := testutil.NewProject(t)
	project.WriteSkill(t, "skills/pdf", "pdf", "PDF tools")
	testutil.WriteFileMode(t, project.Root+"/skills/pdf/scripts/extract.sh", "#!/bin/sh\n", 0o755)

	in := testInput(config.ApprovalModeDefault)
	in.Resolved.Skills = []string{"pdf"}
	in.Units = []fetch.Materialized{{
		Unit: fetch.Unit{Selections: []fetch.Selection{{Kind: fetch.KindSkill, ID: "pdf", Subpath: "pdf"}}},
		Root: project.Root + "/skills",
	}}

	p := render(t, toolspec.Claude, in)
	for _, dir := range []string{".claude/skills/pdf", ".claude/skills/pdf/scripts"} {
		_, ok := find(p, plan.ActionMkdir, dir)
		assert.True(t, ok, dir)
	}
	manifest, ok := find(p, plan.ActionWriteFile, ".claude/skills/pdf/SKILL.md")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(string(manifest.Content()), "---\nname: pdf\n"))
	_, ok = find(p, plan.ActionSetExecutable, ".claude/skills/pdf/scripts/extract.sh")
	assert.True(t, ok)
	_, ok = find(p, plan.ActionSetExecutable, ".claude/skills/pdf/SKILL.md")
	assert.False(t, ok)

	p = render(t, toolspec.Codex, in)
	_, ok = find(p, plan.ActionWriteFile, ".codex/skills/pdf/scripts/extract.sh")
	assert.True(t, ok)
}

func TestCopySkills_NotMaterialized(t *testing.T) {
	in := testInput(config.ApprovalModeDefault)
	in.Resolved.Skills = []string{"pdf"}
	_, err := claudeRenderer{}.Render(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"pdf"`)
}
