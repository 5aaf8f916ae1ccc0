package plan

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/conn-castle/agentsync/internal/messages"
)

// FileReader reads file contents. The OS implementation is os.ReadFile.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// ExistingFile is a snapshot of on-disk state taken at accumulation time.
type ExistingFile struct {
	Exists      bool
	Bytes       []byte
	IsTextGuess bool
}

// textExtensions are always treated as text regardless of content.
var textExtensions = map[string]struct{}{
	".md":    {},
	".txt":   {},
	".rules": {},
	".toml":  {},
	".yaml":  {},
	".yml":   {},
	".json":  {},
	".sh":    {},
}

// ReadExisting snapshots location. Any read failure, including permission errors, yields an absent
// file so planning never fails on unreadable state.
func ReadExisting(reader FileReader, location string, path string) ExistingFile {
	data, err := reader.ReadFile(location)
	if err != nil {
		return ExistingFile{}
	}
	return ExistingFile{
		Exists:      true,
		Bytes:       data,
		IsTextGuess: GuessText(path, data),
	}
}

// GuessText reports whether data should be treated as text: allow-listed extensions always are,
// anything else must be valid UTF-8 with no NUL bytes.
func GuessText(path string, data []byte) bool {
	if HasTextExtension(path) {
		return true
	}
	return bytes.IndexByte(data, 0) < 0 && utf8.Valid(data)
}

// HasTextExtension reports whether path has an extension on the text allow-list.
func HasTextExtension(path string) bool {
	_, ok := textExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Locator maps scoped plan paths onto filesystem locations.
type Locator struct {
	ProjectRoot string
	// HomeDir is the user-scope base. Empty means the invoking user's home directory.
	HomeDir string
}

// Resolve returns the filesystem location for path under scope.
// Project paths join the project root. User paths expand "~", keep absolute paths, and otherwise join
// the home directory.
func (l Locator) Resolve(scope Scope, path string) (string, error) {
	if scope == ScopeProject {
		return filepath.Join(l.ProjectRoot, filepath.FromSlash(path)), nil
	}
	home, err := l.home()
	if err != nil {
		return "", fmt.Errorf(messages.PlanResolveLocationFmt, path, err)
	}
	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`):
		return filepath.Join(home, filepath.FromSlash(path[2:])), nil
	case filepath.IsAbs(path):
		return filepath.Clean(path), nil
	default:
		return filepath.Join(home, filepath.FromSlash(path)), nil
	}
}

func (l Locator) home() (string, error) {
	if l.HomeDir != "" {
		return l.HomeDir, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf(messages.PlanResolveHomeFmt, err)
	}
	return home, nil
}
