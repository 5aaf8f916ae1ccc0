package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Project is a temporary project tree with its own home directory.
type Project struct {
	Root string
	Home string
}

// NewProject creates an empty project root containing .agentsync and a separate home directory.
// t is the active test; both directories are removed when the test ends.
func NewProject(t *testing.T) *Project {
	t.Helper()
	p := &Project{Root: t.TempDir(), Home: t.TempDir()}
	if err := os.MkdirAll(filepath.Join(p.Root, ".agentsync"), 0o755); err != nil {
		t.Fatalf("mkdir .agentsync: %v", err)
	}
	return p
}

// WriteFile writes content to rel under the project root, creating parent directories.
func (p *Project) WriteFile(t *testing.T, rel string, content string) string {
	t.Helper()
	return WriteFileMode(t, filepath.Join(p.Root, filepath.FromSlash(rel)), content, 0o644)
}

// WriteHomeFile writes content to rel under the home directory, creating parent directories.
func (p *Project) WriteHomeFile(t *testing.T, rel string, content string) string {
	t.Helper()
	return WriteFileMode(t, filepath.Join(p.Home, filepath.FromSlash(rel)), content, 0o644)
}

// WriteConfig writes .agentsync/config.toml.
func (p *Project) WriteConfig(t *testing.T, content string) {
	t.Helper()
	p.WriteFile(t, ".agentsync/config.toml", content)
}

// WriteCatalog writes .agentsync/catalog.yaml.
func (p *Project) WriteCatalog(t *testing.T, content string) {
	t.Helper()
	p.WriteFile(t, ".agentsync/catalog.yaml", content)
}

// WriteInstruction writes .agentsync/instructions/<name>.
func (p *Project) WriteInstruction(t *testing.T, name string, content string) {
	t.Helper()
	p.WriteFile(t, ".agentsync/instructions/"+name, content)
}

// WriteAgent writes .agentsync/agents/<id>.md.
func (p *Project) WriteAgent(t *testing.T, id string, content string) {
	t.Helper()
	p.WriteFile(t, ".agentsync/agents/"+id+".md", content)
}

// WriteSkill writes a SKILL.md with the given name and description into rel under the project root.
// rel is the skill directory; extra files can be added with WriteFile.
func (p *Project) WriteSkill(t *testing.T, rel string, name string, description string) {
	t.Helper()
	p.WriteFile(t, rel+"/SKILL.md", "---\nname: "+name+"\ndescription: "+description+"\n---\n# "+name+"\n")
}

// ReadFile returns the content of rel under the project root, failing the test if it is missing.
func (p *Project) ReadFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.Root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// WriteFileMode writes content to path with perm, creating parent directories, and returns path.
func WriteFileMode(t *testing.T, path string, content string, perm os.FileMode) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
	return path
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
