package plan

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/conn-castle/agentsync/internal/merge"
)

// AccumulateOptions configures Accumulate.
type AccumulateOptions struct {
	Locator Locator
	Reader  FileReader
	// ManagedPrefixes are directory prefixes under structured-merge ownership.
	ManagedPrefixes []string
	Log             zerolog.Logger
}

type pathEntry struct {
	path       string
	scope      Scope
	kind       OpKind
	backup     bool
	executable bool
	write      []byte
	hasWrite   bool
	patches    [][]byte
	patterns   map[string]struct{}
}

// Accumulate folds the actions of p into exactly one PlannedOperation per path.
// The plan is normalized first (on a copy), so the result does not depend on emission order.
// Entries with kind Other and no computable content are dropped. The result is sorted by (path, kind).
func Accumulate(p *ActionPlan, opts AccumulateOptions) ([]PlannedOperation, error) {
	normalized := p.Clone()
	normalized.Normalize()

	entries := make(map[string]*pathEntry)
	order := make([]string, 0)
	for _, action := range normalized.actions {
		if action.kind == ActionNoop && action.path == "" {
			continue
		}
		entry, ok := entries[action.path]
		if !ok {
			entry = &pathEntry{path: action.path, scope: action.scope, kind: OpOther}
			entries[action.path] = entry
			order = append(order, action.path)
		}
		entry.scope = escalate(entry.scope, action.scope)
		foldAction(entry, action)
	}

	out := make([]PlannedOperation, 0, len(entries))
	for _, path := range order {
		op, keep, err := resolveEntry(entries[path], opts)
		if err != nil {
			return nil, err
		}
		if !keep {
			opts.Log.Trace().Str("path", path).Msg("dropping operation without actionable change")
			continue
		}
		out = append(out, op)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Kind < out[j].Kind
	})
	opts.Log.Debug().Int("actions", normalized.Len()).Int("operations", len(out)).Msg("accumulated plan")
	return out, nil
}

func foldAction(entry *pathEntry, action Action) {
	switch action.kind {
	case ActionMkdir:
		if entry.kind == OpOther {
			entry.kind = OpMkdir
		}
	case ActionBackupFile:
		entry.backup = true
	case ActionWriteFile:
		entry.write = action.content
		entry.hasWrite = true
		if entry.kind != OpMerge {
			entry.kind = OpWrite
		}
	case ActionMergeJSON:
		entry.patches = append(entry.patches, action.patch)
		entry.kind = OpMerge
	case ActionEnsureGitignore:
		if entry.patterns == nil {
			entry.patterns = make(map[string]struct{})
		}
		entry.patterns[action.pattern] = struct{}{}
	case ActionSetExecutable:
		entry.executable = true
	case ActionNoop:
	}
}

func resolveEntry(entry *pathEntry, opts AccumulateOptions) (PlannedOperation, bool, error) {
	location, err := opts.Locator.Resolve(entry.scope, entry.path)
	if err != nil {
		return PlannedOperation{}, false, err
	}
	existing := ReadExisting(opts.Reader, location, entry.path)

	op := PlannedOperation{
		Path:            entry.path,
		Scope:           entry.scope,
		Kind:            entry.kind,
		BackupRequired:  entry.backup,
		ConsentRequired: entry.scope == ScopeUser,
		SetExecutable:   entry.executable,
		Location:        location,
		Existing:        existing,
	}
	before := op.Before()

	switch entry.kind {
	case OpMerge:
		base := before
		if entry.hasWrite {
			base = merge.ApplyJSONPatches(before, entry.write)
		}
		op.After = merge.ApplyJSONPatches(base, entry.patches...)
		op.HasAfter = true
	case OpWrite:
		op.After = merge.Managed(entry.path, before, existing.Exists, entry.write, opts.ManagedPrefixes)
		op.HasAfter = true
	}

	if len(entry.patterns) > 0 {
		base := before
		if op.HasAfter {
			base = op.After
		}
		patterns := make([]string, 0, len(entry.patterns))
		for pattern := range entry.patterns {
			patterns = append(patterns, pattern)
		}
		op.After = merge.AppendGitignore(base, patterns)
		op.HasAfter = true
		if op.Kind == OpOther || op.Kind == OpMkdir {
			op.Kind = OpWrite
		}
	}

	if op.Kind == OpOther && op.SetExecutable && existing.Exists && !op.HasAfter {
		op.After = existing.Bytes
		op.HasAfter = true
	}

	if op.Kind == OpOther && !op.HasAfter {
		return op, false, nil
	}
	return op, true, nil
}
