package sync

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/config"
	"github.com/conn-castle/agentsync/internal/fetch"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/resolve"
	"github.com/conn-castle/agentsync/internal/toolspec"
)

// Renderer produces the actions for one tool. Output must depend only on Input: the same input
// yields a byte-identical plan.
type Renderer interface {
	ID() string
	Render(in Input) (*plan.ActionPlan, error)
}

// ExistingFunc snapshots the current state of a scoped path.
type ExistingFunc func(scope plan.Scope, path string) plan.ExistingFile

// Input is everything a renderer may read.
type Input struct {
	// Root is the absolute project root.
	Root         string
	Resolved     resolve.Resolved
	Instructions []config.InstructionFile
	Agents       []config.AgentFile
	Catalog      *catalog.Catalog
	Units        []fetch.Materialized
	// Existing reads current on-disk state. Only renderers that fold into user files use it.
	Existing ExistingFunc
	Log      zerolog.Logger
}

var renderers = map[string]Renderer{
	toolspec.Claude:   claudeRenderer{},
	toolspec.Codex:    codexRenderer{},
	toolspec.Continue: continueRenderer{},
	toolspec.Gemini:   geminiRenderer{},
	toolspec.VSCode:   vscodeRenderer{},
}

// RendererFor returns the renderer registered for tool id.
func RendererFor(id string) (Renderer, bool) {
	r, ok := renderers[id]
	return r, ok
}

// RenderAll runs the renderer of every tool in ids, in sorted id order, and concatenates their plans.
func RenderAll(ids []string, in Input) (*plan.ActionPlan, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	out := plan.New()
	for _, id := range sorted {
		r, ok := RendererFor(id)
		if !ok {
			return nil, fmt.Errorf(messages.SyncUnknownRendererFmt, id)
		}
		p, err := r.Render(in)
		if err != nil {
			return nil, fmt.Errorf(messages.SyncRenderFailedFmt, id, err)
		}
		in.Log.Debug().Str("tool", id).Int("actions", p.Len()).Msg("rendered")
		out.Extend(p)
	}
	return out, nil
}

// ensureGitignore adds every gitignore entry the tool declares.
func ensureGitignore(b *plan.Builder, id string) error {
	spec, ok := toolspec.Lookup(id)
	if !ok {
		return fmt.Errorf(messages.SyncUnknownRendererFmt, id)
	}
	for _, entry := range spec.GitignoreEntries {
		if err := b.EnsureGitignore(entry); err != nil {
			return err
		}
	}
	return nil
}

func (in Input) existing(scope plan.Scope, path string) plan.ExistingFile {
	if in.Existing == nil {
		return plan.ExistingFile{}
	}
	return in.Existing(scope, path)
}
