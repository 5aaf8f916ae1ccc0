// Package catalog models the skill and MCP server catalog stored in .agentsync/catalog.yaml.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/conn-castle/agentsync/internal/messages"
)

var (
	// ErrNotFound marks a selected id that the catalog does not define.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrInvalid marks a malformed catalog document.
	ErrInvalid = errors.New("invalid catalog")
)

// SourceType identifies where catalog content is fetched from.
type SourceType string

const (
	SourceGit   SourceType = "git"
	SourceLocal SourceType = "local"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Source locates catalog content.
type Source struct {
	Type     SourceType `yaml:"type" json:"type"`
	Location string     `yaml:"location" json:"location"`
	Ref      string     `yaml:"ref,omitempty" json:"ref,omitempty"`
	Subpath  string     `yaml:"subpath,omitempty" json:"subpath,omitempty"`
}

// CacheKey identifies the fetchable source, ignoring the subpath, so entries that share a repository
// share one fetch.
func (s Source) CacheKey() string {
	key := string(s.Type) + "|" + s.Location
	if s.Ref != "" {
		key += "@" + s.Ref
	}
	return key
}

// WithoutSubpath returns s with the subpath cleared.
func (s Source) WithoutSubpath() Source {
	s.Subpath = ""
	return s
}

// SkillEntry is a catalog skill.
type SkillEntry struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description,omitempty"`
	Source      Source `yaml:"source"`
}

// MCPEntry is a catalog MCP server.
type MCPEntry struct {
	ID          string            `yaml:"id" json:"-"`
	Description string            `yaml:"description,omitempty" json:"-"`
	Transport   string            `yaml:"transport" json:"-"`
	Command     string            `yaml:"command,omitempty" json:"command,omitempty"`
	Args        []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	URL         string            `yaml:"url,omitempty" json:"url,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Source      *Source           `yaml:"source,omitempty" json:"-"`
}

// Catalog is the full catalog document.
type Catalog struct {
	Skills []SkillEntry `yaml:"skills"`
	MCP    []MCPEntry   `yaml:"mcp"`
}

// Parse decodes and validates catalog YAML; unknown keys are rejected.
func Parse(data []byte, source string) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: "+messages.CatalogInvalidFmt, ErrInvalid, source, err)
	}
	if err := c.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &c, nil
}

// Validate checks ids, sources, and transports.
func (c *Catalog) Validate(source string) error {
	seen := make(map[string]int, len(c.Skills))
	for i, skill := range c.Skills {
		if strings.TrimSpace(skill.ID) == "" {
			return fmt.Errorf(messages.CatalogEntryIDRequiredFmt, source, "skills", i)
		}
		if first, ok := seen[skill.ID]; ok {
			return fmt.Errorf(messages.CatalogEntryIDDuplicateFmt, source, "skills", i, skill.ID, first)
		}
		seen[skill.ID] = i
		if skill.Source.Type == "" && skill.Source.Location == "" {
			return fmt.Errorf(messages.CatalogSkillSourceRequiredFmt, source, skill.ID)
		}
		if err := validateSource(source, "skill", skill.ID, skill.Source); err != nil {
			return err
		}
	}

	seen = make(map[string]int, len(c.MCP))
	for i, server := range c.MCP {
		if strings.TrimSpace(server.ID) == "" {
			return fmt.Errorf(messages.CatalogEntryIDRequiredFmt, source, "mcp", i)
		}
		if first, ok := seen[server.ID]; ok {
			return fmt.Errorf(messages.CatalogEntryIDDuplicateFmt, source, "mcp", i, server.ID, first)
		}
		seen[server.ID] = i
		switch server.Transport {
		case TransportStdio:
			if server.Command == "" {
				return fmt.Errorf(messages.CatalogMCPCommandRequiredFmt, source, server.ID)
			}
		case TransportHTTP:
			if server.URL == "" {
				return fmt.Errorf(messages.CatalogMCPURLRequiredFmt, source, server.ID)
			}
		default:
			return fmt.Errorf(messages.CatalogMCPTransportInvalidFmt, source, server.ID, server.Transport)
		}
		if server.Source != nil {
			if err := validateSource(source, "mcp", server.ID, *server.Source); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSource(source string, kind string, id string, s Source) error {
	if s.Type != SourceGit && s.Type != SourceLocal {
		return fmt.Errorf(messages.CatalogSourceTypeInvalidFmt, source, kind, id, s.Type)
	}
	if strings.TrimSpace(s.Location) == "" {
		return fmt.Errorf(messages.CatalogSourceLocationFmt, source, kind, id)
	}
	if s.Subpath != "" {
		sub := strings.ReplaceAll(s.Subpath, `\`, "/")
		if strings.HasPrefix(sub, "/") {
			return fmt.Errorf(messages.CatalogSubpathInvalidFmt, source, kind, id, s.Subpath)
		}
		for _, part := range strings.Split(sub, "/") {
			if part == ".." {
				return fmt.Errorf(messages.CatalogSubpathInvalidFmt, source, kind, id, s.Subpath)
			}
		}
	}
	return nil
}

// Skill returns the skill entry for id.
func (c *Catalog) Skill(id string) (SkillEntry, error) {
	for _, skill := range c.Skills {
		if skill.ID == id {
			return skill, nil
		}
	}
	return SkillEntry{}, fmt.Errorf("%w: "+messages.CatalogNotFoundFmt, ErrNotFound, "skill", id)
}

// MCPServer returns the MCP entry for id.
func (c *Catalog) MCPServer(id string) (MCPEntry, error) {
	for _, server := range c.MCP {
		if server.ID == id {
			return server, nil
		}
	}
	return MCPEntry{}, fmt.Errorf("%w: "+messages.CatalogNotFoundFmt, ErrNotFound, "mcp", id)
}
