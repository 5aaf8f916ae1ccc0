package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/agentsync/internal/config"
)

func sampleConfig() config.Config {
	return config.Config{
		Tools:     config.ToolsConfig{Enabled: []string{"gemini", "claude", "gemini"}},
		Standards: map[string]string{"style": "concise"},
		Selections: config.SelectionsConfig{
			Skills: []string{"pdf", "docx", "pdf"},
			Agents: []string{"reviewer"},
			MCP:    []string{"github", " filesystem "},
		},
	}
}

func TestBuild_SortsAndDeduplicates(t *testing.T) {
	resolved, err := Build(sampleConfig(), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, []string{"claude", "gemini"}, resolved.Tools)
	assert.Equal(t, []string{"docx", "pdf"}, resolved.Skills)
	assert.Equal(t, []string{"filesystem", "github"}, resolved.MCP)
	assert.Equal(t, "default", resolved.ApprovalMode)
}

func TestBuild_DefaultsLanguage(t *testing.T) {
	resolved, err := Build(sampleConfig(), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "English", resolved.Standards["language"])
	assert.Equal(t, "concise", resolved.Standards["style"])

	cfg := sampleConfig()
	cfg.Standards = map[string]string{"language": "French"}
	resolved, err = Build(cfg, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "French", resolved.Language())
}

func TestBuild_OverrideReplacesTools(t *testing.T) {
	resolved, err := Build(sampleConfig(), Overrides{Tools: []string{"codex"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"codex"}, resolved.Tools)

	resolved, err = Build(sampleConfig(), Overrides{Tools: []string{}})
	require.NoError(t, err)
	assert.Empty(t, resolved.Tools, "an empty non-nil override disables every tool")
}

func TestBuild_UnknownOverrideTool(t *testing.T) {
	_, err := Build(sampleConfig(), Overrides{Tools: []string{"notepad"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestCanonical_ByteIdenticalAcrossOrderings(t *testing.T) {
	a := sampleConfig()
	b := sampleConfig()
	b.Tools.Enabled = []string{"claude", "gemini"}
	b.Selections.Skills = []string{"docx", "pdf"}
	b.Selections.MCP = []string{"filesystem", "github"}

	first, err := Build(a, Overrides{})
	require.NoError(t, err)
	second, err := Build(b, Overrides{})
	require.NoError(t, err)
	again, err := Build(a, Overrides{})
	require.NoError(t, err)

	firstJSON, err := first.Canonical()
	require.NoError(t, err)
	secondJSON, err := second.Canonical()
	require.NoError(t, err)
	againJSON, err := again.Canonical()
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
	assert.Equal(t, string(firstJSON), string(againJSON))
}
