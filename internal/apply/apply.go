// Package apply executes planned operations against the filesystem, classifying each path as created,
// updated, unchanged, refused, or failed. Every replaced file is backed up; an explicit BackupFile
// also snapshots a file whose content does not change.
package apply

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/conn-castle/agentsync/internal/merge"
	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
)

const (
	defaultFileMode = 0o644
	defaultDirMode  = 0o755
)

// Options configures Run.
type Options struct {
	// BackupDir holds timestamped backup sets.
	BackupDir string
	// ConsentUser is the separately collected approval for user-scope writes.
	ConsentUser bool
	// Now stamps backup sets. Defaults to time.Now.
	Now    func() time.Time
	System System
	Log    zerolog.Logger
}

type current struct {
	exists bool
	isDir  bool
	mode   os.FileMode
	data   []byte
}

// Run executes ops in order. Per-path I/O failures are recorded and the remaining paths still run.
// The returned error is reserved for invalid options and backup manifest failures.
func Run(ops []plan.PlannedOperation, opts Options) (Report, error) {
	if opts.System == nil {
		return Report{}, errors.New(messages.ApplySystemRequired)
	}
	if strings.TrimSpace(opts.BackupDir) == "" {
		return Report{}, errors.New(messages.ApplyBackupDirRequired)
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	backups := &backupSet{sys: opts.System, baseDir: opts.BackupDir, now: now()}

	report := Report{Results: make([]PathResult, 0, len(ops))}
	for _, op := range ops {
		result := runOne(op, opts, backups)
		logResult(opts.Log, result)
		report.Results = append(report.Results, result)
	}

	// The executable bit is a terminal step, applied once every content write has landed.
	for i, op := range ops {
		if !op.SetExecutable {
			continue
		}
		result := &report.Results[i]
		if result.Status == StatusFailed || result.Status == StatusRefused {
			continue
		}
		changed, err := ensureExecutable(opts.System, op.Location)
		if err != nil {
			result.Status = StatusFailed
			result.Err = fmt.Errorf(messages.ApplyChmodFmt, op.Path, err)
			logResult(opts.Log, *result)
			continue
		}
		if changed && result.Status == StatusUnchanged {
			result.Status = StatusUpdated
		}
	}

	if err := backups.finish(); err != nil {
		return report, err
	}
	report.BackupRoot = backups.root
	return report, nil
}

func runOne(op plan.PlannedOperation, opts Options, backups *backupSet) PathResult {
	result := PathResult{Path: op.Path, Scope: op.Scope, Kind: op.Kind}
	if op.ConsentRequired && !opts.ConsentUser {
		result.Status = StatusRefused
		return result
	}

	state, err := readCurrent(opts.System, op.Location)
	if err != nil {
		return failed(result, err)
	}

	switch op.Kind {
	case plan.OpMkdir:
		return applyMkdir(op, opts.System, state, result)
	case plan.OpDelete:
		return applyDelete(op, opts.System, state, backups, result)
	default:
		return applyContent(op, opts.System, state, backups, result)
	}
}

func applyMkdir(op plan.PlannedOperation, sys System, state current, result PathResult) PathResult {
	if state.exists {
		if !state.isDir {
			return failed(result, fmt.Errorf(messages.ApplyNotDirectoryFmt, op.Location))
		}
		result.Status = StatusUnchanged
		return result
	}
	if err := sys.MkdirAll(op.Location, defaultDirMode); err != nil {
		return failed(result, fmt.Errorf(messages.ApplyMkdirFmt, op.Location, err))
	}
	result.Status = StatusCreated
	return result
}

func applyDelete(op plan.PlannedOperation, sys System, state current, backups *backupSet, result PathResult) PathResult {
	if !state.exists {
		result.Status = StatusUnchanged
		return result
	}
	backupPath, err := backups.save(op, state.data, state.mode)
	if err != nil {
		return failed(result, err)
	}
	result.BackupPath = backupPath
	if err := sys.Remove(op.Location); err != nil {
		return failed(result, fmt.Errorf(messages.ApplyRemoveFmt, op.Location, err))
	}
	result.Status = StatusUpdated
	return result
}

func applyContent(op plan.PlannedOperation, sys System, state current, backups *backupSet, result PathResult) PathResult {
	if !op.HasAfter {
		return failed(result, fmt.Errorf(messages.ApplyMissingContentFmt, op.Path))
	}
	if state.isDir {
		return failed(result, fmt.Errorf(messages.ApplyWriteFmt, op.Location, fs.ErrExist))
	}

	perm := os.FileMode(defaultFileMode)
	switch {
	case !state.exists:
		result.Status = StatusCreated
		if err := sys.MkdirAll(filepath.Dir(op.Location), defaultDirMode); err != nil {
			return failed(result, fmt.Errorf(messages.ApplyMkdirFmt, filepath.Dir(op.Location), err))
		}
	case sameContent(op.Path, state.data, op.After):
		result.Status = StatusUnchanged
		if op.BackupRequired {
			backupPath, err := backups.save(op, state.data, state.mode)
			if err != nil {
				return failed(result, err)
			}
			result.BackupPath = backupPath
		}
		return result
	default:
		result.Status = StatusUpdated
		perm = state.mode.Perm()
		backupPath, err := backups.save(op, state.data, state.mode)
		if err != nil {
			return failed(result, err)
		}
		result.BackupPath = backupPath
	}

	if err := sys.WriteFileAtomic(op.Location, op.After, perm); err != nil {
		return failed(result, fmt.Errorf(messages.ApplyWriteFmt, op.Location, err))
	}
	return result
}

// sameContent compares JSON documents structurally and everything else byte for byte.
func sameContent(path string, existing []byte, planned []byte) bool {
	if strings.HasSuffix(strings.ToLower(path), ".json") && merge.EqualJSON(existing, planned) {
		return true
	}
	return bytes.Equal(existing, planned)
}

func readCurrent(sys System, location string) (current, error) {
	info, err := sys.Stat(location)
	if errors.Is(err, fs.ErrNotExist) {
		return current{}, nil
	}
	if err != nil {
		return current{}, fmt.Errorf(messages.ApplyStatFmt, location, err)
	}
	if info.IsDir() {
		return current{exists: true, isDir: true, mode: info.Mode()}, nil
	}
	data, err := sys.ReadFile(location)
	if err != nil {
		return current{}, fmt.Errorf(messages.ApplyReadFmt, location, err)
	}
	return current{exists: true, mode: info.Mode(), data: data}, nil
}

func ensureExecutable(sys System, location string) (bool, error) {
	info, err := sys.Stat(location)
	if err != nil {
		return false, err
	}
	mode := info.Mode().Perm()
	want := mode | 0o111
	if mode == want {
		return false, nil
	}
	return true, sys.Chmod(location, want)
}

func failed(result PathResult, err error) PathResult {
	result.Status = StatusFailed
	result.Err = err
	return result
}

func logResult(log zerolog.Logger, result PathResult) {
	event := log.Debug()
	if result.Status == StatusFailed {
		event = log.Warn().Err(result.Err)
	}
	event.Str("path", result.Path).Str("scope", result.Scope.String()).Str("status", string(result.Status)).Msg("apply")
}
