package sync

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/agentsync/internal/apply"
	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/diff"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/resolve"
	"github.com/conn-castle/agentsync/internal/skill"
	"github.com/conn-castle/agentsync/internal/testutil"
	"github.com/conn-castle/agentsync/internal/warnings"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)

const projectConfig = `
[tools]
enabled = ["vscode", "claude", "codex", "continue", "gemini"]

[standards]
language = "German"

[selections]
skills = ["pdf"]
agents = ["reviewer"]
mcp = ["github"]

[user]
claude_mcp = true
`

const projectCatalog = `
skills:
  - id: pdf
    source:
      type: local
      location: vendor/skills/pdf
mcp:
  - id: github
    transport: stdio
    command: github-mcp
    args: ["stdio"]
    env:
      GITHUB_TOKEN: "${GITHUB_TOKEN}"
`

func newSyncProject(t *testing.T) *testutil.Project {
	t.Helper()
	project := testutil.NewProject(t)
	project.WriteConfig(t, projectConfig)
	project.WriteCatalog(t, projectCatalog)
	project.WriteInstruction(t, "00-base.md", "Prefer small diffs.\n")
	project.WriteAgent(t, "reviewer", "Review carefully.\n")
	project.WriteSkill(t, "vendor/skills/pdf", "pdf", "Extracts text from PDF files.")
	testutil.WriteFileMode(t, filepath.Join(project.Root, "vendor", "skills", "pdf", "scripts", "run.sh"), "#!/bin/sh\necho ok\n", 0o755)
	return project
}

func buildPlan(t *testing.T, project *testutil.Project) *Result {
	t.Helper()
	result, err := BuildPlan(RealSystem{}, project.Root, Options{HomeDir: project.Home})
	require.NoError(t, err)
	return result
}

func applyOptions(result *Result, consent bool) apply.Options {
	return apply.Options{
		BackupDir:   result.Paths.BackupsDir,
		ConsentUser: consent,
		Now:         func() time.Time { return fixedNow },
		System:      apply.RealSystem{},
	}
}

func TestBuildPlan_ApplyThenIdempotent(t *testing.T) {
	project := newSyncProject(t)

	first := buildPlan(t, project)
	assert.Equal(t, []string{"claude", "codex", "continue", "gemini", "vscode"}, first.Resolved.Tools)
	assert.Empty(t, first.Warnings)

	report, err := Apply(first.Operations, applyOptions(first, false))
	require.NoError(t, err)
	assert.Empty(t, report.Failed())
	require.Len(t, report.Refused(), 1)
	assert.Equal(t, ".claude.json", report.Refused()[0].Path)
	assert.Equal(t, plan.ScopeUser, report.Refused()[0].Scope)
	for _, result := range report.Results {
		if result.Scope == plan.ScopeProject {
			assert.Equal(t, apply.StatusCreated, result.Status, result.Path)
		}
	}
	assert.Empty(t, report.BackupRoot)

	assert.Contains(t, project.ReadFile(t, "CLAUDE.md"), "- Always respond in German.\n")
	assert.Contains(t, project.ReadFile(t, "AGENTS.md"), "Prefer small diffs.")
	assert.Equal(t, "Review carefully.\n", project.ReadFile(t, ".claude/agents/reviewer.md"))
	info, err := os.Stat(filepath.Join(project.Root, ".codex", "skills", "pdf", "scripts", "run.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o100)
	gitignore := project.ReadFile(t, ".gitignore")
	for _, pattern := range []string{".claude/", ".codex/", ".continue/", ".gemini/", ".vscode/mcp.json"} {
		assert.Contains(t, gitignore, pattern+"\n")
	}
	_, err = os.Stat(filepath.Join(project.Home, ".claude.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "user scope needs consent")

	second := buildPlan(t, project)
	report, err = Apply(second.Operations, applyOptions(second, false))
	require.NoError(t, err)
	for _, result := range report.Results {
		if result.Scope == plan.ScopeProject {
			assert.Equal(t, apply.StatusUnchanged, result.Status, result.Path)
		}
	}
	assert.Empty(t, report.BackupRoot)
}

func TestBuildPlan_UserScopeWithConsent(t *testing.T) {
	project := newSyncProject(t)
	project.WriteHomeFile(t, ".claude.json", `{"theme": "dark"}`)

	result := buildPlan(t, project)
	report, err := Apply(result.Operations, applyOptions(result, true))
	require.NoError(t, err)
	assert.Empty(t, report.Refused())
	assert.NotEmpty(t, report.BackupRoot, "existing user file is backed up")

	data, err := os.ReadFile(filepath.Join(project.Home, ".claude.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "dark", doc["theme"])
	assert.Contains(t, doc["mcpServers"], "github")

	again := buildPlan(t, project)
	for _, op := range again.Operations {
		assert.NotEqual(t, plan.ScopeUser, op.Scope, "nothing left to add in user scope")
	}
}

func TestBuildPlan_Deterministic(t *testing.T) {
	project := newSyncProject(t)
	first := buildPlan(t, project)
	second := buildPlan(t, project)

	firstPlan, err := json.Marshal(first.Plan)
	require.NoError(t, err)
	secondPlan, err := json.Marshal(second.Plan)
	require.NoError(t, err)
	assert.Equal(t, string(firstPlan), string(secondPlan))

	firstOps, err := json.Marshal(first.Operations)
	require.NoError(t, err)
	secondOps, err := json.Marshal(second.Operations)
	require.NoError(t, err)
	assert.Equal(t, string(firstOps), string(secondOps))
}

func TestBuildPlan_ToolOverride(t *testing.T) {
	project := newSyncProject(t)
	result, err := BuildPlan(RealSystem{}, project.Root, Options{
		HomeDir:   project.Home,
		Overrides: resolve.Overrides{Tools: []string{"codex"}},
	})
	require.NoError(t, err)
	for _, op := range result.Operations {
		assert.False(t, strings.HasPrefix(op.Path, ".claude"), op.Path)
	}
}

func TestBuildPlan_InvalidSkillManifest(t *testing.T) {
	project := newSyncProject(t)
	project.WriteFile(t, "vendor/skills/pdf/SKILL.md", "# no front matter\n")
	_, err := BuildPlan(RealSystem{}, project.Root, Options{HomeDir: project.Home})
	require.Error(t, err)
	assert.True(t, errors.Is(err, skill.ErrInvalidManifest))
}

func TestBuildPlan_SkillConventionWarning(t *testing.T) {
	project := newSyncProject(t)
	project.WriteSkill(t, "vendor/skills/pdf", "pdf-tools", "Extracts text from PDF files.")
	result := buildPlan(t, project)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, warnings.CodeSkillManifest, result.Warnings[0].Code)
}

func TestBuildPlan_UnknownCatalogID(t *testing.T) {
	project := newSyncProject(t)
	project.WriteConfig(t, "[tools]\nenabled = [\"claude\"]\n\n[selections]\nmcp = [\"jira\"]\n")
	_, err := BuildPlan(RealSystem{}, project.Root, Options{HomeDir: project.Home})
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrNotFound))
}

func TestBuildPlan_MissingCatalogIsEmpty(t *testing.T) {
	project := testutil.NewProject(t)
	project.WriteConfig(t, "[tools]\nenabled = [\"claude\"]\n")
	result := buildPlan(t, project)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Operations)
}

func TestBuildPlan_UnknownTool(t *testing.T) {
	project := newSyncProject(t)
	_, err := BuildPlan(RealSystem{}, project.Root, Options{
		HomeDir:   project.Home,
		Overrides: resolve.Overrides{Tools: []string{"notepad"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, resolve.ErrUnknownTool))
}

func TestBuildPlan_RequiresRoot(t *testing.T) {
	_, err := BuildPlan(RealSystem{}, "", Options{})
	assert.Error(t, err)
	_, _, err = Resolve(nil, "/repo", resolve.Overrides{})
	assert.Error(t, err)
}

func TestPreview_RedactsSecrets(t *testing.T) {
	project := newSyncProject(t)
	project.WriteInstruction(t, "10-secret.md", "Use key AKIA1234567890123456 for the sandbox.\n")
	result := buildPlan(t, project)

	previews := Preview(result.Operations, diff.Options{})
	require.Len(t, previews, len(result.Operations))
	var found bool
	for _, preview := range previews {
		assert.NotContains(t, preview.Body, "AKIA1234567890123456", preview.Path)
		if preview.Path == "CLAUDE.md" {
			found = true
			assert.Contains(t, preview.Body, "AKIA...3456")
			require.NotEmpty(t, preview.Findings)
			assert.Equal(t, diff.SideAfter, preview.Findings[0].Side)
		}
	}
	assert.True(t, found)

	collected := warnings.FromDiff(previews)
	require.NotEmpty(t, collected)
	assert.Equal(t, warnings.CodeSecretRedacted, collected[0].Code)
}
