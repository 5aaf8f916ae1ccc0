// Package fetch groups catalog selections into fetch units and materializes them to local directories.
package fetch

import (
	"sort"

	"github.com/conn-castle/agentsync/internal/catalog"
)

// SelectionKind tells which catalog a selection came from.
type SelectionKind string

const (
	KindSkill SelectionKind = "skill"
	KindMCP   SelectionKind = "mcp"
)

// Selection is one selected catalog id and where its content lives inside the unit.
type Selection struct {
	Kind    SelectionKind `json:"kind"`
	ID      string        `json:"id"`
	Subpath string        `json:"subpath,omitempty"`
}

// Unit is one fetch request: a source shared by every selection in it.
type Unit struct {
	Source     catalog.Source `json:"source"`
	Subpaths   []string       `json:"subpaths"`
	Selections []Selection    `json:"selections"`
}

// CacheKey is the source cache key of the unit.
func (u Unit) CacheKey() string {
	return u.Source.CacheKey()
}

// ResolveUnits looks up every selected id and groups them by source cache key.
// Within a unit, subpaths are sorted and deduplicated and selections are ordered by id.
// Units are ordered by cache key. MCP servers without a source need no fetch and are skipped.
func ResolveUnits(cat *catalog.Catalog, skills []string, mcp []string) ([]Unit, error) {
	groups := make(map[string]*Unit)
	subpaths := make(map[string]map[string]struct{})

	add := func(source catalog.Source, selection Selection) {
		key := source.CacheKey()
		unit, ok := groups[key]
		if !ok {
			unit = &Unit{Source: source.WithoutSubpath(), Subpaths: []string{}, Selections: []Selection{}}
			groups[key] = unit
			subpaths[key] = make(map[string]struct{})
		}
		unit.Selections = append(unit.Selections, selection)
		if selection.Subpath != "" {
			subpaths[key][selection.Subpath] = struct{}{}
		}
	}

	for _, id := range skills {
		entry, err := cat.Skill(id)
		if err != nil {
			return nil, err
		}
		add(entry.Source, Selection{Kind: KindSkill, ID: id, Subpath: entry.Source.Subpath})
	}
	for _, id := range mcp {
		entry, err := cat.MCPServer(id)
		if err != nil {
			return nil, err
		}
		if entry.Source == nil {
			continue
		}
		add(*entry.Source, Selection{Kind: KindMCP, ID: id, Subpath: entry.Source.Subpath})
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	units := make([]Unit, 0, len(keys))
	for _, key := range keys {
		unit := groups[key]
		for subpath := range subpaths[key] {
			unit.Subpaths = append(unit.Subpaths, subpath)
		}
		sort.Strings(unit.Subpaths)
		sort.SliceStable(unit.Selections, func(i, j int) bool {
			a, b := unit.Selections[i], unit.Selections[j]
			if a.ID != b.ID {
				return a.ID < b.ID
			}
			return a.Kind < b.Kind
		})
		unit.Selections = dedupSelections(unit.Selections)
		units = append(units, *unit)
	}
	return units, nil
}

func dedupSelections(selections []Selection) []Selection {
	out := selections[:0]
	for i, selection := range selections {
		if i > 0 && selection == selections[i-1] {
			continue
		}
		out = append(out, selection)
	}
	return out
}
