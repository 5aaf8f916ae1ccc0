package sync

import (
	"fmt"
	"path"
	"sort"

	"github.com/conn-castle/agentsync/internal/fetch"
	"github.com/conn-castle/agentsync/internal/fsutil"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/skill"
)

type skillDir struct {
	ID  string
	Dir string
}

// skillDirs maps every selected skill to its materialized directory, in id order.
func skillDirs(in Input) ([]skillDir, error) {
	found := make(map[string]string)
	for _, unit := range in.Units {
		for _, selection := range unit.Unit.Selections {
			if selection.Kind != fetch.KindSkill {
				continue
			}
			found[selection.ID] = unit.Dir(selection)
		}
	}

	out := make([]skillDir, 0, len(in.Resolved.Skills))
	for _, id := range in.Resolved.Skills {
		dir, ok := found[id]
		if !ok {
			return nil, fmt.Errorf(messages.SyncSkillNotMaterializedFmt, id)
		}
		out = append(out, skillDir{ID: id, Dir: dir})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// copySkills mirrors every selected skill directory under base/<id>/. Each directory gets a Mkdir and
// executable files get SetExecutable.
func copySkills(b *plan.Builder, base string, in Input) error {
	dirs, err := skillDirs(in)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		files, err := skill.Files(dir.Dir)
		if err != nil {
			return fmt.Errorf(messages.SyncSkillFilesFmt, dir.ID, err)
		}
		root := path.Join(base, dir.ID)
		made := map[string]struct{}{}
		mkdir := func(p string) error {
			if _, ok := made[p]; ok {
				return nil
			}
			made[p] = struct{}{}
			return b.Mkdir(p)
		}
		if err := mkdir(root); err != nil {
			return err
		}
		for _, file := range files {
			target := path.Join(root, file.Rel)
			for parent := path.Dir(file.Rel); parent != "."; parent = path.Dir(parent) {
				if err := mkdir(path.Join(root, parent)); err != nil {
					return err
				}
			}
			if err := b.WriteFile(target, file.Data); err != nil {
				return err
			}
			if fsutil.IsExecutable(file.Mode) {
				if err := b.SetExecutable(target); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeAgents writes each selected agent definition to dir/<id>.md.
func writeAgents(b *plan.Builder, dir string, in Input) error {
	for _, agent := range in.Agents {
		if err := b.WriteFile(path.Join(dir, agent.ID+".md"), []byte(agent.Content)); err != nil {
			return err
		}
	}
	return nil
}
