// Package sync renders the resolved configuration into per-tool actions and runs the
// load, resolve, fetch, render, and accumulate pipeline.
package sync

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/conn-castle/agentsync/internal/apply"
	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/config"
	"github.com/conn-castle/agentsync/internal/diff"
	"github.com/conn-castle/agentsync/internal/fetch"
	"github.com/conn-castle/agentsync/internal/logging"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/resolve"
	"github.com/conn-castle/agentsync/internal/skill"
	"github.com/conn-castle/agentsync/internal/toolspec"
	"github.com/conn-castle/agentsync/internal/warnings"
)

// Options configures BuildPlan.
type Options struct {
	Overrides resolve.Overrides
	// Materializer serves fetch units. Nil uses a LocalMaterializer rooted at the project.
	Materializer fetch.Materializer
	// HomeDir is the user-scope base. Empty means the invoking user's home directory.
	HomeDir string
	Log     zerolog.Logger
}

// Result is a built plan plus everything it was derived from.
type Result struct {
	Root     string
	Paths    config.Paths
	Project  *config.ProjectConfig
	Resolved resolve.Resolved
	Catalog  *catalog.Catalog
	Units    []fetch.Unit
	// Plan is the normalized action plan of every renderer.
	Plan       *plan.ActionPlan
	Operations []plan.PlannedOperation
	// Warnings are planning-time warnings (skill conventions, policy). Noise control is not applied.
	Warnings []warnings.Warning
}

// Resolve loads the project configuration under root and resolves it with the overrides applied.
func Resolve(sys System, root string, overrides resolve.Overrides) (*config.ProjectConfig, resolve.Resolved, error) {
	if sys == nil {
		return nil, resolve.Resolved{}, errors.New(messages.SyncSystemRequired)
	}
	if root == "" {
		return nil, resolve.Resolved{}, errors.New(messages.SyncRootRequired)
	}
	project, err := config.LoadProjectConfigFS(sys.DirFS(root), root)
	if err != nil {
		return nil, resolve.Resolved{}, err
	}
	resolved, err := resolve.Build(project.Config, overrides)
	if err != nil {
		return nil, resolve.Resolved{}, err
	}
	return project, resolved, nil
}

// BuildPlan runs the planning pipeline for root. Nothing is written.
// Validation errors (config, catalog, skill manifests, paths) abort planning.
func BuildPlan(sys System, root string, opts Options) (*Result, error) {
	if root == "" {
		return nil, errors.New(messages.SyncRootRequired)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf(messages.SyncResolveLocationFmt, root, err)
	}
	log := logging.Component(opts.Log, "sync")

	project, resolved, err := Resolve(sys, absRoot, opts.Overrides)
	if err != nil {
		return nil, err
	}
	paths := config.DefaultPaths(absRoot)
	cat, err := loadCatalog(sys, paths.CatalogPath)
	if err != nil {
		return nil, err
	}

	units, err := fetch.ResolveUnits(cat, resolved.Skills, resolved.MCP)
	if err != nil {
		return nil, err
	}
	materializer := opts.Materializer
	if materializer == nil {
		materializer = fetch.LocalMaterializer{ProjectRoot: absRoot, Log: logging.Component(opts.Log, "fetch")}
	}
	materialized, err := fetch.MaterializeAll(materializer, units)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("units", len(units)).Msg("materialized fetch units")

	skillWarnings, err := validateSkills(materialized)
	if err != nil {
		return nil, err
	}

	locator := plan.Locator{ProjectRoot: absRoot, HomeDir: opts.HomeDir}
	in := Input{
		Root:         absRoot,
		Resolved:     resolved,
		Instructions: project.Instructions,
		Agents:       project.Agents,
		Catalog:      cat,
		Units:        materialized,
		Existing: func(scope plan.Scope, path string) plan.ExistingFile {
			location, err := locator.Resolve(scope, path)
			if err != nil {
				return plan.ExistingFile{}
			}
			return plan.ReadExisting(sys, location, path)
		},
		Log: log,
	}
	rendered, err := RenderAll(resolved.Tools, in)
	if err != nil {
		return nil, err
	}
	rendered.Normalize()

	ops, err := plan.Accumulate(rendered, plan.AccumulateOptions{
		Locator:         locator,
		Reader:          sys,
		ManagedPrefixes: toolspec.ManagedPrefixes(resolved.Tools),
		Log:             logging.Component(opts.Log, "plan"),
	})
	if err != nil {
		return nil, err
	}

	collected := append([]warnings.Warning(nil), skillWarnings...)
	collected = append(collected, warnings.CheckPolicy(resolved, cat)...)

	return &Result{
		Root:       absRoot,
		Paths:      paths,
		Project:    project,
		Resolved:   resolved,
		Catalog:    cat,
		Units:      units,
		Plan:       rendered,
		Operations: ops,
		Warnings:   collected,
	}, nil
}

// Preview renders one diff per operation, in operation order.
func Preview(ops []plan.PlannedOperation, opts diff.Options) []diff.Result {
	out := make([]diff.Result, 0, len(ops))
	for _, op := range ops {
		out = append(out, diff.Operation(op, opts))
	}
	return out
}

// Apply executes ops with opts. It is a thin wrapper so callers only need this package.
func Apply(ops []plan.PlannedOperation, opts apply.Options) (apply.Report, error) {
	opts.Log = logging.Component(opts.Log, "apply")
	return apply.Run(ops, opts)
}

// loadCatalog reads the catalog through sys. A missing catalog is empty.
func loadCatalog(sys System, path string) (*catalog.Catalog, error) {
	data, err := sys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &catalog.Catalog{}, nil
		}
		return nil, fmt.Errorf(messages.SyncReadCatalogFmt, path, err)
	}
	return catalog.Parse(data, path)
}

// validateSkills loads every materialized skill manifest. Malformed manifests are errors; convention
// findings become warnings.
func validateSkills(units []fetch.Materialized) ([]warnings.Warning, error) {
	var out []warnings.Warning
	for _, unit := range units {
		for _, selection := range unit.Unit.Selections {
			if selection.Kind != fetch.KindSkill {
				continue
			}
			manifest, err := skill.LoadManifest(unit.Dir(selection))
			if err != nil {
				return nil, err
			}
			out = append(out, warnings.FromSkillFindings(selection.ID, skill.Validate(manifest, selection.ID))...)
		}
	}
	return out, nil
}
