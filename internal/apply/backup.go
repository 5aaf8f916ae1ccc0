package apply

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/conn-castle/agentsync/internal/messages"
	"github.com/conn-castle/agentsync/internal/plan"
)

const (
	backupManifestSchemaVersion = 1
	backupManifestName          = "manifest.json"
	backupStampLayout           = "20060102-150405"
)

type backupEntry struct {
	Path     string     `json:"path"`
	Scope    plan.Scope `json:"scope"`
	Location string     `json:"location"`
	Backup   string     `json:"backup"`
	Mode     string     `json:"mode"`
	Size     int        `json:"size"`
	BLAKE3   string     `json:"blake3"`
}

type backupManifest struct {
	SchemaVersion int           `json:"schema_version"`
	CreatedAtUTC  string        `json:"created_at_utc"`
	Entries       []backupEntry `json:"entries"`
}

// backupSet lazily creates one timestamped directory per run. It is append-only.
type backupSet struct {
	sys     System
	baseDir string
	now     time.Time
	root    string
	entries []backupEntry
}

func newBackupID(now time.Time) string {
	utc := now.UTC()
	return fmt.Sprintf("%s.%09d", utc.Format(backupStampLayout), utc.Nanosecond())
}

// save copies the current file content into the set, preserving its relative path and permissions.
func (b *backupSet) save(op plan.PlannedOperation, data []byte, mode os.FileMode) (string, error) {
	if b.root == "" {
		b.root = filepath.Join(b.baseDir, newBackupID(b.now))
	}
	dst := filepath.Join(b.root, op.Scope.String(), filepath.FromSlash(backupRelPath(op.Path)))
	if err := b.sys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf(messages.ApplyBackupFmt, op.Path, err)
	}
	if err := b.sys.WriteFileAtomic(dst, data, mode.Perm()); err != nil {
		return "", fmt.Errorf(messages.ApplyBackupFmt, op.Path, err)
	}
	sum := blake3.Sum256(data)
	b.entries = append(b.entries, backupEntry{
		Path:     op.Path,
		Scope:    op.Scope,
		Location: op.Location,
		Backup:   dst,
		Mode:     fmt.Sprintf("%04o", mode.Perm()),
		Size:     len(data),
		BLAKE3:   hex.EncodeToString(sum[:]),
	})
	return dst, nil
}

// finish writes the manifest when at least one file was backed up.
func (b *backupSet) finish() error {
	if b.root == "" {
		return nil
	}
	manifest := backupManifest{
		SchemaVersion: backupManifestSchemaVersion,
		CreatedAtUTC:  b.now.UTC().Format(time.RFC3339Nano),
		Entries:       b.entries,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf(messages.ApplyBackupManifestFmt, b.root, err)
	}
	data = append(data, '\n')
	path := filepath.Join(b.root, backupManifestName)
	if err := b.sys.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf(messages.ApplyBackupManifestFmt, path, err)
	}
	return nil
}

// backupRelPath maps a plan path into a relative path inside the backup set.
// User-scope paths may be absolute or home-relative.
func backupRelPath(path string) string {
	rel := strings.ReplaceAll(path, `\`, "/")
	rel = strings.TrimPrefix(rel, "~")
	if len(rel) >= 2 && rel[1] == ':' {
		rel = rel[:1] + rel[2:]
	}
	rel = strings.TrimLeft(rel, "/")
	parts := strings.Split(rel, "/")
	kept := parts[:0]
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			kept = append(kept, "__parent__")
		default:
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "_"
	}
	return strings.Join(kept, "/")
}
