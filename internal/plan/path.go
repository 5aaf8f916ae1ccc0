package plan

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/conn-castle/agentsync/internal/messages"
)

// ErrInvalidPath marks path-safety violations. They are always raised at construction time.
var ErrInvalidPath = errors.New("invalid action path")

var driveLetterPattern = regexp.MustCompile(`^[A-Za-z]:`)

// ValidatePath checks path against the rules for scope.
// Project paths must be relative, free of ".." components, and not drive-letter paths.
// User paths only need to be non-empty; their writes are gated by consent instead.
func ValidatePath(scope Scope, kind ActionKind, path string) error {
	if path == "" {
		return fmt.Errorf("%w: "+messages.PlanPathRequiredFmt, ErrInvalidPath, kind)
	}
	if strings.ContainsAny(path, "\x00\n\r") {
		return fmt.Errorf("%w: "+messages.PlanPathControlCharFmt, ErrInvalidPath, path)
	}
	if scope == ScopeUser {
		return nil
	}
	if driveLetterPattern.MatchString(path) {
		return fmt.Errorf("%w: "+messages.PlanPathDriveLetterFmt, ErrInvalidPath, path)
	}
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) || filepath.IsAbs(path) {
		return fmt.Errorf("%w: "+messages.PlanPathAbsoluteFmt, ErrInvalidPath, path)
	}
	for _, part := range strings.FieldsFunc(path, isPathSeparator) {
		if part == ".." {
			return fmt.Errorf("%w: "+messages.PlanPathTraversalFmt, ErrInvalidPath, path)
		}
	}
	return nil
}

// NormalizePath returns the canonical slash-separated form of name: backslashes become slashes,
// repeated separators and "." elements are dropped. Every spelling of one file maps to one key.
func NormalizePath(name string) string {
	return path.Clean(strings.ReplaceAll(name, `\`, "/"))
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
