package plan

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// OpKind is the resolved operation kind of a PlannedOperation. Declaration order is the sort order.
type OpKind int

const (
	// OpWrite replaces file content.
	OpWrite OpKind = iota
	// OpMerge deep-merges JSON patches onto the file.
	OpMerge
	// OpDelete removes a file.
	OpDelete
	// OpMkdir creates a directory.
	OpMkdir
	// OpOther covers metadata-only operations such as a bare executable-bit change.
	OpOther
)

var opKindNames = [...]string{
	OpWrite:  "write",
	OpMerge:  "merge",
	OpDelete: "delete",
	OpMkdir:  "mkdir",
	OpOther:  "other",
}

// String returns the lowercase kind name.
func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opKindNames) {
		return fmt.Sprintf("op(%d)", int(k))
	}
	return opKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// PlannedOperation is the per-path collapse of every action touching that path.
// It is derived on every run and never mutated after construction.
type PlannedOperation struct {
	Path            string
	Scope           Scope
	Kind            OpKind
	BackupRequired  bool
	ConsentRequired bool
	SetExecutable   bool
	// Location is the resolved filesystem path.
	Location string
	Existing ExistingFile
	// After is the projected content; HasAfter distinguishes empty content from no content.
	After    []byte
	HasAfter bool
}

// Before returns the on-disk content at planning time, or nil when the file is absent.
func (op PlannedOperation) Before() []byte {
	if !op.Existing.Exists {
		return nil
	}
	return op.Existing.Bytes
}

type operationJSON struct {
	Path            string  `json:"path"`
	Scope           Scope   `json:"scope"`
	Kind            OpKind  `json:"kind"`
	BackupRequired  bool    `json:"backup_required"`
	ConsentRequired bool    `json:"consent_required"`
	SetExecutable   bool    `json:"set_executable"`
	BeforeExists    bool    `json:"before_exists"`
	Before          *string `json:"before,omitempty"`
	BeforeBinary    bool    `json:"before_binary,omitempty"`
	After           *string `json:"after,omitempty"`
	AfterBinary     bool    `json:"after_binary,omitempty"`
}

// MarshalJSON renders the operation for preview layers. Binary content is flagged, not inlined.
func (op PlannedOperation) MarshalJSON() ([]byte, error) {
	out := operationJSON{
		Path:            op.Path,
		Scope:           op.Scope,
		Kind:            op.Kind,
		BackupRequired:  op.BackupRequired,
		ConsentRequired: op.ConsentRequired,
		SetExecutable:   op.SetExecutable,
		BeforeExists:    op.Existing.Exists,
	}
	if op.Existing.Exists {
		out.Before, out.BeforeBinary = textOrFlag(op.Existing.Bytes)
	}
	if op.HasAfter {
		out.After, out.AfterBinary = textOrFlag(op.After)
	}
	return json.Marshal(out)
}

func textOrFlag(data []byte) (*string, bool) {
	if !utf8.Valid(data) {
		return nil, true
	}
	text := string(data)
	return &text, false
}
