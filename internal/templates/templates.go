// Package templates embeds the starter .agentsync files written by agentsync init.
package templates

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed files
var content embed.FS

const root = "files"

// Read returns the template at the slash-separated path, relative to the .agentsync directory.
func Read(name string) ([]byte, error) {
	return content.ReadFile(path.Join(root, name))
}

// Walk walks the templates under dir. Paths passed to fn are relative to the .agentsync directory.
func Walk(dir string, fn fs.WalkDirFunc) error {
	sub, err := fs.Sub(content, root)
	if err != nil {
		return err
	}
	return fs.WalkDir(sub, dir, fn)
}
