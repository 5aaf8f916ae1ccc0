// Package fsutil holds small filesystem helpers shared by the planner and the apply engine.
package fsutil

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to filename by writing a temp file in the same directory and renaming it.
// The final file carries perm regardless of the process umask.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, filename); err != nil {
		cleanup()
		return err
	}
	return nil
}

// IsExecutable reports whether any execute bit is set on mode.
func IsExecutable(mode os.FileMode) bool {
	return mode.Perm()&0o111 != 0
}
