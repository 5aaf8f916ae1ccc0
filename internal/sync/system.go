package sync

import (
	"io/fs"
	"os"

	"github.com/conn-castle/agentsync/internal/apply"
)

// System abstracts the filesystem for the pipeline: config loading, existing-state reads, and apply writes.
type System interface {
	apply.System
	DirFS(root string) fs.FS
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct {
	apply.RealSystem
}

// DirFS returns a file system rooted at root.
func (RealSystem) DirFS(root string) fs.FS {
	return os.DirFS(root)
}
