// Package root locates the project root that agentsync operates on.
package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/agentsync/internal/messages"
)

const (
	// DirName is the hidden project directory holding agentsync state.
	DirName = ".agentsync"
	gitName = ".git"
)

// FindProjectRoot searches upwards from start for a .agentsync directory.
// It returns found=false without error when no ancestor contains one.
func FindProjectRoot(start string) (string, bool, error) {
	dir, err := absStart(start)
	if err != nil {
		return "", false, err
	}
	for {
		ok, err := isDir(filepath.Join(dir, DirName))
		if err != nil {
			return "", false, err
		}
		if ok {
			return dir, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindRoot prefers the nearest .agentsync ancestor, then the nearest git work tree, then start itself.
func FindRoot(start string) (string, error) {
	dir, found, err := FindProjectRoot(start)
	if err != nil {
		return "", err
	}
	if found {
		return dir, nil
	}

	abs, err := absStart(start)
	if err != nil {
		return "", err
	}
	for dir = abs; ; {
		ok, err := gitMarker(filepath.Join(dir, gitName))
		if err != nil {
			return "", err
		}
		if ok {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

func absStart(start string) (string, error) {
	if start == "" {
		return "", errors.New(messages.RootStartPathRequired)
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf(messages.RootResolvePathFmt, start, err)
	}
	return abs, nil
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(messages.RootCheckPathFmt, path, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf(messages.RootPathNotDirFmt, path)
	}
	return true, nil
}

// gitMarker accepts a .git directory or a .git file (worktrees, submodules).
func gitMarker(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(messages.RootCheckPathFmt, path, err)
	}
	if info.IsDir() || info.Mode().IsRegular() {
		return true, nil
	}
	return false, fmt.Errorf(messages.RootPathNotDirOrFileFmt, path)
}
