package config

import "path/filepath"

// DirName is the project-root hidden directory.
const DirName = ".agentsync"

// Paths holds resolved paths for config files and directories.
type Paths struct {
	Root            string
	Dir             string
	ConfigPath      string
	CatalogPath     string
	InstructionsDir string
	AgentsDir       string
	BackupsDir      string
	TmpDir          string
}

// DefaultPaths returns the default config paths for a repo root.
func DefaultPaths(root string) Paths {
	dir := filepath.Join(root, DirName)
	return Paths{
		Root:            root,
		Dir:             dir,
		ConfigPath:      filepath.Join(dir, "config.toml"),
		CatalogPath:     filepath.Join(dir, "catalog.yaml"),
		InstructionsDir: filepath.Join(dir, "instructions"),
		AgentsDir:       filepath.Join(dir, "agents"),
		BackupsDir:      filepath.Join(dir, "backups"),
		TmpDir:          filepath.Join(dir, "tmp"),
	}
}
