package apply

import (
	"encoding/json"

	"github.com/conn-castle/agentsync/internal/plan"
)

// Status is the per-path execution outcome.
type Status string

const (
	// StatusCreated means no prior file existed.
	StatusCreated Status = "created"
	// StatusUpdated means the prior content differed and was replaced after a backup.
	StatusUpdated Status = "updated"
	// StatusUnchanged means the planned content already matched.
	StatusUnchanged Status = "unchanged"
	// StatusRefused means a user-scope operation was left unexecuted for lack of consent.
	StatusRefused Status = "refused"
	// StatusFailed means an I/O error stopped this path. Other paths still ran.
	StatusFailed Status = "failed"
)

// PathResult is the outcome for one planned operation.
type PathResult struct {
	Path       string
	Scope      plan.Scope
	Kind       plan.OpKind
	Status     Status
	BackupPath string
	Err        error
}

type pathResultJSON struct {
	Path       string      `json:"path"`
	Scope      plan.Scope  `json:"scope"`
	Kind       plan.OpKind `json:"kind"`
	Status     Status      `json:"status"`
	BackupPath string      `json:"backup_path,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// MarshalJSON renders the error as text.
func (r PathResult) MarshalJSON() ([]byte, error) {
	out := pathResultJSON{
		Path:       r.Path,
		Scope:      r.Scope,
		Kind:       r.Kind,
		Status:     r.Status,
		BackupPath: r.BackupPath,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Report is the execution report: one result per planned operation, in plan order.
type Report struct {
	Results []PathResult `json:"results"`
	// BackupRoot is the backup set directory, empty when nothing was backed up.
	BackupRoot string `json:"backup_root,omitempty"`
}

// Statuses maps each path to its status.
func (r Report) Statuses() map[string]Status {
	out := make(map[string]Status, len(r.Results))
	for _, result := range r.Results {
		out[result.Path] = result.Status
	}
	return out
}

// Failed returns the results with StatusFailed.
func (r Report) Failed() []PathResult {
	return r.filter(StatusFailed)
}

// Refused returns the results with StatusRefused.
func (r Report) Refused() []PathResult {
	return r.filter(StatusRefused)
}

// Count returns how many results have status.
func (r Report) Count(status Status) int {
	return len(r.filter(status))
}

func (r Report) filter(status Status) []PathResult {
	var out []PathResult
	for _, result := range r.Results {
		if result.Status == status {
			out = append(out, result)
		}
	}
	return out
}
