package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
[tools]
enabled = ["gemini", "claude"]

[standards]
language = "German"

[selections]
skills = ["pdf"]
agents = ["reviewer"]
mcp = ["github"]

[approvals]
mode = "yolo"

[user]
claude_mcp = true

[warnings]
noise_mode = "reduce"
`

func TestParseConfig_Valid(t *testing.T) {
	cfg, err := ParseConfig([]byte(validConfig), "config.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini", "claude"}, cfg.Tools.Enabled)
	assert.Equal(t, "German", cfg.Standards["language"])
	assert.Equal(t, []string{"pdf"}, cfg.Selections.Skills)
	assert.Equal(t, ApprovalModeYOLO, cfg.Approvals.Mode)
	assert.True(t, cfg.User.ClaudeMCP)
	assert.Equal(t, NoiseModeReduce, cfg.Warnings.NoiseMode)
}

func TestParseConfig_DefaultsApprovalMode(t *testing.T) {
	cfg, err := ParseConfig([]byte("[tools]\nenabled = []\n"), "config.toml")
	require.NoError(t, err)
	assert.Equal(t, ApprovalModeDefault, cfg.Approvals.Mode)
}

func TestParseConfig_Errors(t *testing.T) {
	cases := []struct {
		name       string
		data       string
		validation bool
		contains   string
	}{
		{name: "syntax", data: "[tools", contains: "invalid config"},
		{name: "unknown key", data: "[tools]\nenabled = []\nextra = 1\n", validation: true, contains: "unrecognized keys"},
		{name: "unknown tool", data: "[tools]\nenabled = [\"emacs\"]\n", validation: true, contains: "not a known tool"},
		{name: "empty tool", data: "[tools]\nenabled = [\" \"]\n", validation: true, contains: "tools.enabled[0] is empty"},
		{name: "bad mode", data: "[approvals]\nmode = \"all\"\n", validation: true, contains: "approvals.mode"},
		{name: "empty selection", data: "[selections]\nmcp = [\"\"]\n", validation: true, contains: "selections.mcp[0]"},
		{name: "bad noise mode", data: "[warnings]\nnoise_mode = \"loud\"\n", validation: true, contains: "warnings.noise_mode"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.data), "config.toml")
			require.Error(t, err)
			assert.Equal(t, tc.validation, errors.Is(err, ErrConfigValidation))
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestLoadProjectConfigFS(t *testing.T) {
	fsys := fstest.MapFS{
		".agentsync/config.toml":           {Data: []byte(validConfig)},
		".agentsync/instructions/b.md":     {Data: []byte("second")},
		".agentsync/instructions/a.md":     {Data: append([]byte{0xEF, 0xBB, 0xBF}, []byte("first")...)},
		".agentsync/instructions/skip.txt": {Data: []byte("ignored")},
		".agentsync/agents/reviewer.md":    {Data: []byte("# Reviewer")},
	}
	root := filepath.Join(string(filepath.Separator), "repo")
	project, err := LoadProjectConfigFS(fsys, root)
	require.NoError(t, err)

	require.Len(t, project.Instructions, 2)
	assert.Equal(t, "a.md", project.Instructions[0].Name)
	assert.Equal(t, "first", project.Instructions[0].Content)
	assert.Equal(t, []AgentFile{{ID: "reviewer", Content: "# Reviewer"}}, project.Agents)
	assert.Equal(t, root, project.Root)
}

func TestLoadProjectConfigFS_MissingAgent(t *testing.T) {
	fsys := fstest.MapFS{
		".agentsync/config.toml": {Data: []byte("[selections]\nagents = [\"ghost\"]\n")},
	}
	_, err := LoadProjectConfigFS(fsys, "/repo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigValidation))
	assert.Contains(t, err.Error(), "ghost")
}

func TestLoadProjectConfigFS_MissingInstructionsIsEmpty(t *testing.T) {
	fsys := fstest.MapFS{".agentsync/config.toml": {Data: []byte("")}}
	project, err := LoadProjectConfigFS(fsys, "/repo")
	require.NoError(t, err)
	assert.Empty(t, project.Instructions)
	assert.Empty(t, project.Agents)
}

func TestLoadProjectConfigFS_RequiresInputs(t *testing.T) {
	_, err := LoadProjectConfigFS(nil, "/repo")
	assert.Error(t, err)
	_, err = LoadProjectConfigFS(fstest.MapFS{}, "")
	assert.Error(t, err)
	_, err = LoadProjectConfigFS(fstest.MapFS{}, "/repo")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing config file"))
}

func TestFSPathFromRoot_OutsideRoot(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	if _, err := fsPathFromRoot(root, other); err == nil {
		t.Fatalf("expected error for path outside root")
	}
}

func TestDefaultPaths(t *testing.T) {
	paths := DefaultPaths("/repo")
	assert.Equal(t, filepath.Join("/repo", ".agentsync", "config.toml"), paths.ConfigPath)
	assert.Equal(t, filepath.Join("/repo", ".agentsync", "backups"), paths.BackupsDir)
	assert.Equal(t, filepath.Join("/repo", ".agentsync", "tmp"), paths.TmpDir)
}

func TestFieldOptionValues(t *testing.T) {
	assert.Equal(t, []string{"default", "yolo"}, FieldOptionValues("approvals.mode"))
	assert.Equal(t, []string{"default", "reduce", "quiet"}, FieldOptionValues("warnings.noise_mode"))
	assert.Nil(t, FieldOptionValues("missing"))
}
