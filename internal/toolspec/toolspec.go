// Package toolspec declares the coding tools agentsync renders for and the paths each one owns.
package toolspec

import (
	"sort"
	"strings"
)

// Tool ids.
const (
	Claude   = "claude"
	Codex    = "codex"
	Continue = "continue"
	Gemini   = "gemini"
	VSCode   = "vscode"
)

// Spec describes one tool.
type Spec struct {
	ID          string
	Description string
	// InstructionsFile is the project-root instruction file, empty when the tool has none.
	InstructionsFile string
	// GitignoreEntries are ensured in the project .gitignore. Entries ending in "/" are managed prefixes.
	GitignoreEntries []string
}

var specs = []Spec{
	{
		ID:               Claude,
		Description:      "Claude Code",
		InstructionsFile: "CLAUDE.md",
		GitignoreEntries: []string{".claude/", ".mcp.json", "CLAUDE.md"},
	},
	{
		ID:               Codex,
		Description:      "Codex CLI",
		InstructionsFile: "AGENTS.md",
		GitignoreEntries: []string{".codex/", "AGENTS.md"},
	},
	{
		ID:               Continue,
		Description:      "Continue",
		GitignoreEntries: []string{".continue/"},
	},
	{
		ID:               Gemini,
		Description:      "Gemini CLI",
		InstructionsFile: "GEMINI.md",
		GitignoreEntries: []string{".gemini/", "GEMINI.md"},
	},
	{
		ID:               VSCode,
		Description:      "VS Code",
		GitignoreEntries: []string{".vscode/mcp.json"},
	},
}

var index = func() map[string]int {
	out := make(map[string]int, len(specs))
	for i, spec := range specs {
		out[spec.ID] = i
	}
	return out
}()

// All returns every tool spec ordered by id.
func All() []Spec {
	out := make([]Spec, len(specs))
	for i, spec := range specs {
		out[i] = copySpec(spec)
	}
	return out
}

// IDs returns every known tool id in sorted order.
func IDs() []string {
	out := make([]string, len(specs))
	for i, spec := range specs {
		out[i] = spec.ID
	}
	return out
}

// Lookup returns the spec for id.
func Lookup(id string) (Spec, bool) {
	i, ok := index[id]
	if !ok {
		return Spec{}, false
	}
	return copySpec(specs[i]), true
}

// Known reports whether id names a tool.
func Known(id string) bool {
	_, ok := index[id]
	return ok
}

// ManagedPrefixes returns the sorted, deduplicated directory prefixes declared by the given tools.
// Unknown ids are ignored.
func ManagedPrefixes(ids []string) []string {
	seen := make(map[string]struct{})
	for _, id := range ids {
		spec, ok := Lookup(id)
		if !ok {
			continue
		}
		for _, entry := range spec.GitignoreEntries {
			if strings.HasSuffix(entry, "/") {
				seen[entry] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for prefix := range seen {
		out = append(out, prefix)
	}
	sort.Strings(out)
	return out
}

func copySpec(spec Spec) Spec {
	spec.GitignoreEntries = append([]string(nil), spec.GitignoreEntries...)
	return spec
}
