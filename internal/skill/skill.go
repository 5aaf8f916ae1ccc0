// Package skill loads skill directories: a SKILL.md manifest with YAML front matter plus supporting files.
package skill

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/conn-castle/agentsync/internal/messages"
)

// ErrInvalidManifest marks a SKILL.md that cannot be used.
var ErrInvalidManifest = errors.New("invalid skill manifest")

// ManifestName is the required manifest file name inside a skill directory.
const ManifestName = "SKILL.md"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Manifest is a parsed SKILL.md.
type Manifest struct {
	Path        string
	Name        string
	Description string
	Keys        []string
	LineCount   int
}

// File is one file of a skill directory.
type File struct {
	// Rel is the slash-separated path relative to the skill directory.
	Rel  string
	Mode fs.FileMode
	Data []byte
}

// LoadManifest reads and validates dir/SKILL.md. name and description are required.
func LoadManifest(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: "+messages.SkillManifestReadFmt, ErrInvalidManifest, path, err)
	}
	return ParseManifest(raw, path)
}

// ParseManifest parses manifest content; path is used in error messages.
func ParseManifest(raw []byte, path string) (Manifest, error) {
	content := string(bytes.TrimPrefix(raw, utf8BOM))
	yamlText, _, ok := splitFrontMatter(content)
	if !ok {
		return Manifest{}, fmt.Errorf("%w: "+messages.SkillManifestFrontMatterFmt, ErrInvalidManifest, path)
	}
	parsed, err := parseFrontMatter(yamlText)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: "+messages.SkillManifestYAMLFmt, ErrInvalidManifest, path, err)
	}

	manifest := Manifest{Path: path, Keys: parsed.keys, LineCount: countLines(content)}
	if parsed.name == nil || normalizeName(*parsed.name) == "" {
		return Manifest{}, fmt.Errorf("%w: "+messages.SkillManifestFieldFmt, ErrInvalidManifest, path, "name")
	}
	manifest.Name = normalizeName(*parsed.name)
	if parsed.description == nil || strings.TrimSpace(*parsed.description) == "" {
		return Manifest{}, fmt.Errorf("%w: "+messages.SkillManifestFieldFmt, ErrInvalidManifest, path, "description")
	}
	manifest.Description = strings.TrimSpace(*parsed.description)
	return manifest, nil
}

// Files returns every regular file under dir, sorted by relative path.
func Files(dir string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir && entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, File{Rel: filepath.ToSlash(rel), Mode: info.Mode(), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(norm.NFKC.String(name))
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	count := strings.Count(content, "\n")
	if strings.HasSuffix(content, "\n") {
		return count
	}
	return count + 1
}
