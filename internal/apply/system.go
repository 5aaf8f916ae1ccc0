package apply

import (
	"os"

	"github.com/conn-castle/agentsync/internal/fsutil"
)

// System abstracts the filesystem operations the apply engine performs.
// It is package-local so tests can inject failures per path.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
	Chmod(name string, mode os.FileMode) error
	Remove(name string) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFileAtomic writes data to a temp file and renames it into place.
func (RealSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return fsutil.WriteFileAtomic(filename, data, perm)
}

// Chmod changes the mode of the named file.
func (RealSystem) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

// Remove removes the named file.
func (RealSystem) Remove(name string) error {
	return os.Remove(name)
}
