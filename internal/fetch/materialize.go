package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"

	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/messages"
)

// ErrUnsupportedSource marks a source type the materializer cannot serve.
var ErrUnsupportedSource = errors.New("unsupported source")

// Materialized is a fetch unit available on the local filesystem.
type Materialized struct {
	Unit Unit
	// Root is the local directory holding the unit source.
	Root string
}

// Dir returns the local directory for selection.
func (m Materialized) Dir(selection Selection) string {
	if selection.Subpath == "" {
		return m.Root
	}
	return filepath.Join(m.Root, filepath.FromSlash(selection.Subpath))
}

// Materializer turns a fetch unit into a local directory.
type Materializer interface {
	Materialize(unit Unit) (Materialized, error)
}

// LocalMaterializer serves local sources in place. Relative locations resolve against ProjectRoot and
// "~" expands to the home directory. Remote sources are rejected; downloading is another component's job.
type LocalMaterializer struct {
	ProjectRoot string
	Log         zerolog.Logger
}

// Materialize implements Materializer.
func (l LocalMaterializer) Materialize(unit Unit) (Materialized, error) {
	if unit.Source.Type != catalog.SourceLocal {
		return Materialized{}, fmt.Errorf("%w: "+messages.FetchUnsupportedSourceFmt, ErrUnsupportedSource, unit.CacheKey())
	}
	location, err := homedir.Expand(unit.Source.Location)
	if err != nil {
		return Materialized{}, fmt.Errorf(messages.FetchMaterializeFmt, unit.CacheKey(), err)
	}
	if !filepath.IsAbs(location) {
		location = filepath.Join(l.ProjectRoot, filepath.FromSlash(location))
	}
	info, err := os.Stat(location)
	if err != nil {
		return Materialized{}, fmt.Errorf(messages.FetchMaterializeFmt, unit.CacheKey(), err)
	}
	if !info.IsDir() {
		return Materialized{}, fmt.Errorf(messages.FetchMaterializeFmt, unit.CacheKey(), errors.New("not a directory"))
	}

	materialized := Materialized{Unit: unit, Root: location}
	for _, subpath := range unit.Subpaths {
		dir := filepath.Join(location, filepath.FromSlash(subpath))
		if _, err := os.Stat(dir); err != nil {
			return Materialized{}, fmt.Errorf(messages.FetchSubpathMissingFmt, unit.CacheKey(), subpath, err)
		}
	}
	l.Log.Debug().Str("source", unit.CacheKey()).Str("root", location).Int("selections", len(unit.Selections)).Msg("materialized unit")
	return materialized, nil
}

// MaterializeAll materializes units in order and stops at the first failure.
func MaterializeAll(m Materializer, units []Unit) ([]Materialized, error) {
	out := make([]Materialized, 0, len(units))
	for _, unit := range units {
		materialized, err := m.Materialize(unit)
		if err != nil {
			return nil, err
		}
		out = append(out, materialized)
	}
	return out, nil
}
