package plan

import (
	"fmt"
	"strings"

	"github.com/conn-castle/agentsync/internal/messages"
)

// Scope identifies where an action lands and which policy gates it.
type Scope int

const (
	// ScopeProject targets paths inside the project tree. Always permitted.
	ScopeProject Scope = iota
	// ScopeUser targets the invoking user's home directory. Requires consent at apply time.
	ScopeUser
)

// String returns the lowercase scope label.
func (s Scope) String() string {
	switch s {
	case ScopeProject:
		return "project"
	case ScopeUser:
		return "user"
	default:
		return fmt.Sprintf("scope(%d)", int(s))
	}
}

// ParseScope parses a scope label.
func ParseScope(value string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "project":
		return ScopeProject, nil
	case "user":
		return ScopeUser, nil
	default:
		return 0, fmt.Errorf(messages.PlanInvalidScopeFmt, value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	if s != ScopeProject && s != ScopeUser {
		return nil, fmt.Errorf(messages.PlanInvalidScopeFmt, s.String())
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// escalate returns the more restrictive of two scopes.
func escalate(a Scope, b Scope) Scope {
	if a == ScopeUser || b == ScopeUser {
		return ScopeUser
	}
	return ScopeProject
}
