package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	pathpkg "path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conn-castle/agentsync/internal/messages"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadProjectConfigFS reads and validates the project configuration from an fs.FS rooted at the repo root.
// root is used for error messages and path resolution.
func LoadProjectConfigFS(fsys fs.FS, root string) (*ProjectConfig, error) {
	if fsys == nil {
		return nil, errors.New(messages.ConfigFSRequired)
	}
	if root == "" {
		return nil, errors.New(messages.ConfigRootRequired)
	}
	paths := DefaultPaths(root)

	cfg, err := LoadConfigFS(fsys, root, paths.ConfigPath)
	if err != nil {
		return nil, err
	}

	instructions, err := LoadInstructionsFS(fsys, root, paths.InstructionsDir)
	if err != nil {
		return nil, err
	}

	agents, err := LoadAgentsFS(fsys, root, paths.AgentsDir, cfg.Selections.Agents)
	if err != nil {
		return nil, err
	}

	return &ProjectConfig{
		Config:       *cfg,
		Instructions: instructions,
		Agents:       agents,
		Root:         root,
	}, nil
}

// LoadConfigFS reads .agentsync/config.toml from fsys and validates it.
func LoadConfigFS(fsys fs.FS, root string, path string) (*Config, error) {
	data, err := readFileFS(fsys, root, path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return ParseConfig(data, path)
}

// LoadInstructionsFS reads .agentsync/instructions/*.md in lexicographic order.
// A missing directory yields no instructions.
func LoadInstructionsFS(fsys fs.FS, root string, dir string) ([]InstructionFile, error) {
	entries, err := readDirFS(fsys, root, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []InstructionFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigFailedReadInstructionsFmt, dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".md") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	files := make([]InstructionFile, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := readFileFS(fsys, root, path)
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigFailedReadInstructionFmt, path, err)
		}
		files = append(files, InstructionFile{
			Name:    name,
			Content: string(bytes.TrimPrefix(data, utf8BOM)),
		})
	}
	return files, nil
}

// LoadAgentsFS reads .agentsync/agents/<id>.md for each selected id, sorted and deduplicated.
// A selected agent without a definition file is an error.
func LoadAgentsFS(fsys fs.FS, root string, dir string, ids []string) ([]AgentFile, error) {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[strings.TrimSpace(id)] = struct{}{}
	}
	sorted := make([]string, 0, len(unique))
	for id := range unique {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	agents := make([]AgentFile, 0, len(sorted))
	for _, id := range sorted {
		path := filepath.Join(dir, id+".md")
		data, err := readFileFS(fsys, root, path)
		if err != nil {
			return nil, fmt.Errorf("%w: "+messages.ConfigMissingAgentFmt, ErrConfigValidation, id, path, err)
		}
		agents = append(agents, AgentFile{ID: id, Content: string(bytes.TrimPrefix(data, utf8BOM))})
	}
	return agents, nil
}

// readFileFS reads a file from fsys using a path relative to root.
func readFileFS(fsys fs.FS, root string, path string) ([]byte, error) {
	fsPath, err := fsPathFromRoot(root, path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, fsPath)
}

// readDirFS reads a directory from fsys using a path relative to root.
func readDirFS(fsys fs.FS, root string, dir string) ([]fs.DirEntry, error) {
	fsPath, err := fsPathFromRoot(root, dir)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(fsys, fsPath)
}

// fsPathFromRoot returns an fs.FS-compatible path for a full or relative path under root.
func fsPathFromRoot(root string, targetPath string) (string, error) {
	if filepath.IsAbs(targetPath) {
		rel, err := filepath.Rel(root, targetPath)
		if err != nil {
			return "", fmt.Errorf(messages.ConfigPathOutsideRootFmt, targetPath, root)
		}
		rel = filepath.Clean(rel)
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf(messages.ConfigPathOutsideRootFmt, targetPath, root)
		}
		return pathpkg.Clean(filepath.ToSlash(rel)), nil
	}
	return pathpkg.Clean(filepath.ToSlash(targetPath)), nil
}
