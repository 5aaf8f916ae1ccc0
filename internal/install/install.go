// Package install scaffolds a project's .agentsync directory from the embedded templates.
package install

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/rs/zerolog"

	"github.com/conn-castle/agentsync/internal/apply"
	"github.com/conn-castle/agentsync/internal/config"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
	"github.com/conn-castle/agentsync/internal/templates"
)

// gitignoreEntries keep machine-local state out of version control.
var gitignoreEntries = []string{
	config.DirName + "/backups/",
	config.DirName + "/tmp/",
}

// Options controls installer behavior.
type Options struct {
	// Overwrite replaces template files whose content differs. Replaced files are backed up.
	Overwrite bool
	System    apply.System
	// Now stamps backup sets. Defaults to time.Now.
	Now func() time.Time
	Log zerolog.Logger
}

type installer struct {
	root      string
	overwrite bool
	sys       apply.System
	now       func() time.Time
	log       zerolog.Logger

	plan      *plan.ActionPlan
	templates map[string]struct{}
	ops       []plan.PlannedOperation
	report    apply.Report
}

// Run writes the starter .agentsync tree under root. Files that already exist are left alone unless
// Overwrite is set, so running it on an initialized project only fills in what is missing.
func Run(root string, opts Options) (apply.Report, error) {
	if root == "" {
		return apply.Report{}, errors.New(messages.InstallRootRequired)
	}
	if opts.System == nil {
		return apply.Report{}, errors.New(messages.InstallSystemRequired)
	}
	inst := &installer{
		root:      root,
		overwrite: opts.Overwrite,
		sys:       opts.System,
		now:       opts.Now,
		log:       opts.Log,
		plan:      plan.New(),
		templates: make(map[string]struct{}),
	}
	steps := []func() error{
		inst.writeTemplates,
		inst.ensureGitignore,
		inst.accumulate,
		inst.apply,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return apply.Report{}, err
		}
	}
	return inst.report, nil
}

func (inst *installer) writeTemplates() error {
	b := inst.plan.Project()
	if err := b.Mkdir(config.DirName); err != nil {
		return err
	}
	err := templates.Walk(".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := path.Join(config.DirName, name)
		if entry.IsDir() {
			if name == "." {
				return nil
			}
			return b.Mkdir(target)
		}
		data, err := templates.Read(name)
		if err != nil {
			return fmt.Errorf(messages.InstallReadTemplateFmt, name, err)
		}
		inst.templates[target] = struct{}{}
		return b.WriteFile(target, data)
	})
	if err != nil {
		return fmt.Errorf(messages.InstallWalkTemplatesFmt, err)
	}
	return nil
}

func (inst *installer) ensureGitignore() error {
	b := inst.plan.Project()
	for _, entry := range gitignoreEntries {
		if err := b.EnsureGitignore(entry); err != nil {
			return err
		}
	}
	return nil
}

// accumulate resolves the plan against disk and drops template writes that would clobber user files.
func (inst *installer) accumulate() error {
	ops, err := plan.Accumulate(inst.plan, plan.AccumulateOptions{
		Locator: plan.Locator{ProjectRoot: inst.root},
		Reader:  inst.sys,
		Log:     inst.log,
	})
	if err != nil {
		return err
	}
	for _, op := range ops {
		if _, isTemplate := inst.templates[op.Path]; isTemplate && op.Existing.Exists && !inst.overwrite {
			inst.log.Debug().Str("path", op.Path).Msg("keeping existing file")
			continue
		}
		inst.ops = append(inst.ops, op)
	}
	return nil
}

func (inst *installer) apply() error {
	report, err := apply.Run(inst.ops, apply.Options{
		BackupDir: config.DefaultPaths(inst.root).BackupsDir,
		Now:       inst.now,
		System:    inst.sys,
		Log:       inst.log,
	})
	if err != nil {
		return err
	}
	inst.report = report
	return nil
}
