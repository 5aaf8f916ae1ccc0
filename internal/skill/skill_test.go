package skill

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSkill(t *testing.T, dir string, manifest string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoadManifest_Valid(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdf")
	writeSkill(t, dir, "---\nname: pdf\ndescription: Read and write PDFs\n---\n# PDF\n")

	manifest, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "pdf" || manifest.Description != "Read and write PDFs" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	if manifest.LineCount != 5 {
		t.Fatalf("LineCount = %d, want 5", manifest.LineCount)
	}
	if findings := Validate(manifest, "pdf"); len(findings) != 0 {
		t.Fatalf("unexpected findings: %+v", findings)
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	cases := map[string]string{
		"no front matter": "# just markdown\n",
		"unterminated":    "---\nname: x\n",
		"missing name":    "---\ndescription: d\n---\n",
		"blank name":      "---\nname: \"  \"\ndescription: d\n---\n",
		"missing desc":    "---\nname: x\n---\n",
		"non-scalar name": "---\nname: [a]\ndescription: d\n---\n",
		"not a mapping":   "---\n- a\n---\n",
		"yaml syntax":     "---\nname: : :\n---\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "skill")
			writeSkill(t, dir, content)
			if _, err := LoadManifest(dir); !errors.Is(err, ErrInvalidManifest) {
				t.Fatalf("expected ErrInvalidManifest, got %v", err)
			}
		})
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	if _, err := LoadManifest(t.TempDir()); !errors.Is(err, ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest, got %v", err)
	}
}

func TestValidate_Warnings(t *testing.T) {
	manifest := Manifest{
		Path:        "x/SKILL.md",
		Name:        "Bad_Name",
		Description: strings.Repeat("d", MaxDescriptionLength+1),
		Keys:        []string{"description", "name", "owner"},
		LineCount:   MaxRecommendedLines + 1,
	}
	findings := Validate(manifest, "good-name")
	codes := make([]string, 0, len(findings))
	for _, finding := range findings {
		codes = append(codes, finding.Code)
	}
	want := []string{
		FindingCodeDescriptionTooLong,
		FindingCodeUnknownField,
		FindingCodeNameMismatch,
		FindingCodeNameInvalid,
		FindingCodeSizeRecommendation,
	}
	if strings.Join(codes, ",") != strings.Join(want, ",") {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	writeSkill(t, dir, "---\nname: a\ndescription: b\n---\n")
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scripts", "run.sh"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := Files(dir)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 || files[0].Rel != ManifestName || files[1].Rel != "scripts/run.sh" {
		t.Fatalf("unexpected files %+v", files)
	}
	if files[1].Mode.Perm()&0o111 == 0 {
		t.Fatalf("expected executable mode, got %v", files[1].Mode)
	}
}
