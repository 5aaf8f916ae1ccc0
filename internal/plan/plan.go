package plan

import (
	"bytes"
	"encoding/json"
	"sort"
)

// ActionPlan is an insertion-ordered collection of actions contributed by independent renderers.
// Call Normalize before comparing, serializing, or accumulating a plan.
type ActionPlan struct {
	actions []Action
}

// New returns an empty plan.
func New() *ActionPlan {
	return &ActionPlan{actions: []Action{}}
}

// Append adds actions in order. Every action is re-validated so zero values cannot enter the plan.
func (p *ActionPlan) Append(actions ...Action) error {
	for _, action := range actions {
		if err := action.validate(); err != nil {
			return err
		}
	}
	p.actions = append(p.actions, actions...)
	return nil
}

// Extend appends every action of other, preserving its order.
func (p *ActionPlan) Extend(other *ActionPlan) {
	if other == nil {
		return
	}
	p.actions = append(p.actions, other.actions...)
}

// Actions returns a copy of the actions in current order.
func (p *ActionPlan) Actions() []Action {
	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	return out
}

// Len returns the number of actions.
func (p *ActionPlan) Len() int {
	return len(p.actions)
}

// Clone returns an independent copy of the plan.
func (p *ActionPlan) Clone() *ActionPlan {
	return &ActionPlan{actions: p.Actions()}
}

// Normalize sorts actions by (kind rank, path, serialized form) and drops exact duplicates.
// It is idempotent, and two plans holding the same actions in any order normalize identically.
func (p *ActionPlan) Normalize() {
	type keyed struct {
		action Action
		key    []byte
	}
	items := make([]keyed, 0, len(p.actions))
	for _, action := range p.actions {
		items = append(items, keyed{action: action, key: sortKey(action)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].action, items[j].action
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		if a.path != b.path {
			return a.path < b.path
		}
		return bytes.Compare(items[i].key, items[j].key) < 0
	})

	out := make([]Action, 0, len(items))
	var prev []byte
	for i, item := range items {
		if i > 0 && bytes.Equal(item.key, prev) {
			continue
		}
		out = append(out, item.action)
		prev = item.key
	}
	p.actions = out
}

// sortKey is the full serialized representation used as the final tie-break and for dedup.
func sortKey(action Action) []byte {
	data, err := json.Marshal(action)
	if err != nil {
		// Marshal only fails for an invalid scope, which validate rejects before actions enter a plan.
		return []byte(action.kind.String() + "\x00" + action.path)
	}
	return data
}

type planJSON struct {
	Actions []Action `json:"actions"`
}

// MarshalJSON renders the plan as {"actions": [...]} in current order.
func (p *ActionPlan) MarshalJSON() ([]byte, error) {
	actions := p.actions
	if actions == nil {
		actions = []Action{}
	}
	return json.Marshal(planJSON{Actions: actions})
}

// UnmarshalJSON decodes a plan; every action passes the constructor checks.
func (p *ActionPlan) UnmarshalJSON(data []byte) error {
	var in planJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Actions == nil {
		in.Actions = []Action{}
	}
	p.actions = in.Actions
	return nil
}
