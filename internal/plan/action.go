package plan

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/conn-castle/agentsync/internal/messages"
)

// ErrInvalidAction marks actions whose payload is malformed (for example a non-object JSON patch).
var ErrInvalidAction = errors.New("invalid action")

// GitignorePath is the single path that receives line-append semantics.
const GitignorePath = ".gitignore"

// ActionKind is the variant tag of an Action. The declaration order is the normalization rank.
type ActionKind int

const (
	// ActionMkdir creates a directory.
	ActionMkdir ActionKind = iota
	// ActionBackupFile requests a backup of the current file before it changes.
	ActionBackupFile
	// ActionWriteFile writes full file content.
	ActionWriteFile
	// ActionMergeJSON deep-merges a JSON object patch onto the file.
	ActionMergeJSON
	// ActionEnsureGitignore appends a pattern line to .gitignore when missing.
	ActionEnsureGitignore
	// ActionSetExecutable marks a file executable after its content is written.
	ActionSetExecutable
	// ActionNoop carries no operation.
	ActionNoop
)

var actionKindNames = [...]string{
	ActionMkdir:           "mkdir",
	ActionBackupFile:      "backup_file",
	ActionWriteFile:       "write_file",
	ActionMergeJSON:       "merge_json",
	ActionEnsureGitignore: "ensure_gitignore",
	ActionSetExecutable:   "set_executable",
	ActionNoop:            "noop",
}

// String returns the snake_case name of the kind.
func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionKindNames) {
		return fmt.Sprintf("action(%d)", int(k))
	}
	return actionKindNames[k]
}

// ParseActionKind parses a snake_case action kind name.
func ParseActionKind(name string) (ActionKind, error) {
	for i, candidate := range actionKindNames {
		if candidate == name {
			return ActionKind(i), nil
		}
	}
	return 0, fmt.Errorf(messages.PlanInvalidActionKindFmt, name)
}

// Action is a single primitive file-operation intent.
// Values are only built through the New* constructors (or a Builder), which enforce path safety.
type Action struct {
	kind    ActionKind
	scope   Scope
	path    string
	content []byte
	patch   []byte
	pattern string
}

// Kind returns the variant tag.
func (a Action) Kind() ActionKind { return a.kind }

// Scope returns the action scope.
func (a Action) Scope() Scope { return a.scope }

// Path returns the target path as given at construction.
func (a Action) Path() string { return a.path }

// Content returns the WriteFile payload.
func (a Action) Content() []byte { return bytes.Clone(a.content) }

// Patch returns the canonical JSON object of a MergeJSON action.
func (a Action) Patch() []byte { return bytes.Clone(a.patch) }

// Pattern returns the EnsureGitignore line.
func (a Action) Pattern() string { return a.pattern }

// NewMkdir builds a Mkdir action.
func NewMkdir(scope Scope, path string) (Action, error) {
	return newPathAction(ActionMkdir, scope, path)
}

// NewBackupFile builds a BackupFile action.
func NewBackupFile(scope Scope, path string) (Action, error) {
	return newPathAction(ActionBackupFile, scope, path)
}

// NewSetExecutable builds a SetExecutable action.
func NewSetExecutable(scope Scope, path string) (Action, error) {
	return newPathAction(ActionSetExecutable, scope, path)
}

// NewWriteFile builds a WriteFile action carrying the full file content.
func NewWriteFile(scope Scope, path string, content []byte) (Action, error) {
	action, err := newPathAction(ActionWriteFile, scope, path)
	if err != nil {
		return Action{}, err
	}
	action.content = bytes.Clone(content)
	if action.content == nil {
		action.content = []byte{}
	}
	return action, nil
}

// NewMergeJSON builds a MergeJSON action. patch must be a JSON object; it is stored in canonical
// (key-sorted, compact) form so equal patches compare equal.
func NewMergeJSON(scope Scope, path string, patch []byte) (Action, error) {
	action, err := newPathAction(ActionMergeJSON, scope, path)
	if err != nil {
		return Action{}, err
	}
	canonical, err := canonicalJSONObject(path, patch)
	if err != nil {
		return Action{}, err
	}
	action.patch = canonical
	return action, nil
}

// NewEnsureGitignore builds an EnsureGitignore action for the project .gitignore.
func NewEnsureGitignore(scope Scope, pattern string) (Action, error) {
	action, err := newPathAction(ActionEnsureGitignore, scope, GitignorePath)
	if err != nil {
		return Action{}, err
	}
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return Action{}, fmt.Errorf("%w: %s", ErrInvalidAction, messages.PlanGitignorePatternEmpty)
	}
	if strings.ContainsAny(trimmed, "\r\n") {
		return Action{}, fmt.Errorf("%w: "+messages.PlanGitignorePatternLineFmt, ErrInvalidAction, pattern)
	}
	action.pattern = trimmed
	return action, nil
}

// NewNoop builds a Noop action. The path may be empty; a non-empty path is still validated.
func NewNoop(scope Scope, path string) (Action, error) {
	if path == "" {
		return Action{kind: ActionNoop, scope: scope}, nil
	}
	return newPathAction(ActionNoop, scope, path)
}

func newPathAction(kind ActionKind, scope Scope, path string) (Action, error) {
	if scope != ScopeProject && scope != ScopeUser {
		return Action{}, fmt.Errorf("%w: "+messages.PlanInvalidScopeFmt, ErrInvalidAction, scope.String())
	}
	if err := ValidatePath(scope, kind, path); err != nil {
		return Action{}, err
	}
	normalized := NormalizePath(path)
	if normalized == "." {
		return Action{}, fmt.Errorf("%w: "+messages.PlanPathRequiredFmt, ErrInvalidPath, kind)
	}
	return Action{kind: kind, scope: scope, path: normalized}, nil
}

// validate re-checks the construction invariants. It rejects zero values that bypassed the constructors.
func (a Action) validate() error {
	if a.kind == ActionNoop && a.path == "" {
		return nil
	}
	if a.scope != ScopeProject && a.scope != ScopeUser {
		return fmt.Errorf("%w: "+messages.PlanInvalidScopeFmt, ErrInvalidAction, a.scope.String())
	}
	if a.kind < ActionMkdir || a.kind > ActionNoop {
		return fmt.Errorf("%w: "+messages.PlanInvalidActionKindFmt, ErrInvalidAction, a.kind.String())
	}
	return ValidatePath(a.scope, a.kind, a.path)
}

func canonicalJSONObject(path string, data []byte) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: "+messages.PlanMergePatchInvalidFmt, ErrInvalidAction, path, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: "+messages.PlanMergePatchInvalidFmt, ErrInvalidAction, path, errors.New("trailing data"))
	}
	if _, ok := value.(map[string]any); !ok {
		return nil, fmt.Errorf("%w: "+messages.PlanMergePatchNotObjectFmt, ErrInvalidAction, path)
	}
	return json.Marshal(value)
}

type actionJSON struct {
	Kind          string          `json:"kind"`
	Scope         Scope           `json:"scope"`
	Path          string          `json:"path"`
	Content       *string         `json:"content,omitempty"`
	ContentBase64 string          `json:"content_base64,omitempty"`
	Patch         json.RawMessage `json:"patch,omitempty"`
	Pattern       string          `json:"pattern,omitempty"`
}

// MarshalJSON renders the action as a tagged object. Text content is inlined; binary content is base64.
func (a Action) MarshalJSON() ([]byte, error) {
	out := actionJSON{
		Kind:    a.kind.String(),
		Scope:   a.scope,
		Path:    a.path,
		Pattern: a.pattern,
	}
	if a.kind == ActionWriteFile {
		if utf8.Valid(a.content) {
			text := string(a.content)
			out.Content = &text
		} else {
			out.ContentBase64 = base64.StdEncoding.EncodeToString(a.content)
		}
	}
	if len(a.patch) > 0 {
		out.Patch = json.RawMessage(a.patch)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a tagged action and re-runs the constructor checks.
func (a *Action) UnmarshalJSON(data []byte) error {
	var in actionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf(messages.PlanDecodeActionFmt, err)
	}
	kind, err := ParseActionKind(in.Kind)
	if err != nil {
		return fmt.Errorf(messages.PlanDecodeActionFmt, err)
	}
	var decoded Action
	switch kind {
	case ActionMkdir:
		decoded, err = NewMkdir(in.Scope, in.Path)
	case ActionBackupFile:
		decoded, err = NewBackupFile(in.Scope, in.Path)
	case ActionSetExecutable:
		decoded, err = NewSetExecutable(in.Scope, in.Path)
	case ActionWriteFile:
		var content []byte
		if in.Content != nil {
			content = []byte(*in.Content)
		} else if in.ContentBase64 != "" {
			content, err = base64.StdEncoding.DecodeString(in.ContentBase64)
			if err != nil {
				return fmt.Errorf(messages.PlanDecodeContentFmt, in.Path, err)
			}
		}
		decoded, err = NewWriteFile(in.Scope, in.Path, content)
	case ActionMergeJSON:
		decoded, err = NewMergeJSON(in.Scope, in.Path, in.Patch)
	case ActionEnsureGitignore:
		decoded, err = NewEnsureGitignore(in.Scope, in.Pattern)
	case ActionNoop:
		decoded, err = NewNoop(in.Scope, in.Path)
	}
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}
