package install

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/conn-castle/agentsync/internal/apply"
	"github.com/conn-castle/agentsync/internal/catalog"
	"github.com/conn-castle/agentsync/internal/config"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func options(overwrite bool) Options {
	return Options{
		Overwrite: overwrite,
		System:    apply.RealSystem{},
		Now:       func() time.Time { return fixedNow },
	}
}

func TestRun_WritesTemplates(t *testing.T) {
	root := t.TempDir()
	report, err := Run(root, options(false))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Failed()) != 0 {
		t.Fatalf("unexpected failures: %+v", report.Failed())
	}

	paths := config.DefaultPaths(root)
	if _, err := config.LoadProjectConfig(root); err != nil {
		t.Fatalf("starter config does not load: %v", err)
	}
	catalogData, err := os.ReadFile(paths.CatalogPath)
	if err != nil {
		t.Fatalf("read starter catalog: %v", err)
	}
	if _, err := catalog.Parse(catalogData, paths.CatalogPath); err != nil {
		t.Fatalf("starter catalog does not load: %v", err)
	}
	if _, err := os.Stat(filepath.Join(paths.InstructionsDir, "00-base.md")); err != nil {
		t.Fatalf("expected instruction template: %v", err)
	}
	gitignore, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	if !strings.Contains(string(gitignore), ".agentsync/backups/\n") {
		t.Fatalf("expected backups ignored, got %q", gitignore)
	}
}

func TestRun_KeepsExistingFiles(t *testing.T) {
	root := t.TempDir()
	if _, err := Run(root, options(false)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	configPath := config.DefaultPaths(root).ConfigPath
	custom := "[tools]\nenabled = [\"gemini\"]\n"
	if err := os.WriteFile(configPath, []byte(custom), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	report, err := Run(root, options(false))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if report.Count(apply.StatusUpdated) != 0 || report.Count(apply.StatusCreated) != 0 {
		t.Fatalf("expected no writes on second run, got %+v", report.Statuses())
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != custom {
		t.Fatalf("existing config was replaced")
	}
}

func TestRun_OverwriteBacksUp(t *testing.T) {
	root := t.TempDir()
	if _, err := Run(root, options(false)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	configPath := config.DefaultPaths(root).ConfigPath
	if err := os.WriteFile(configPath, []byte("[tools]\nenabled = []\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	report, err := Run(root, options(true))
	if err != nil {
		t.Fatalf("overwrite Run: %v", err)
	}
	if got := report.Statuses()[".agentsync/config.toml"]; got != apply.StatusUpdated {
		t.Fatalf("config status = %q, want updated", got)
	}
	if report.BackupRoot == "" {
		t.Fatalf("expected a backup set")
	}
	if !strings.HasPrefix(report.BackupRoot, config.DefaultPaths(root).BackupsDir) {
		t.Fatalf("backup root %s outside backups dir", report.BackupRoot)
	}
}

func TestRun_RequiresInputs(t *testing.T) {
	if _, err := Run("", options(false)); err == nil {
		t.Fatalf("expected error for empty root")
	}
	if _, err := Run(t.TempDir(), Options{}); err == nil {
		t.Fatalf("expected error for nil system")
	}
}
