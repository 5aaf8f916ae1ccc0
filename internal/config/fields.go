package config

import "github.com/conn-castle/agentsync/internal/messages"

// FieldType classifies the kind of value a config field accepts.
type FieldType string

const (
	// FieldBool accepts true or false.
	FieldBool FieldType = "bool"
	// FieldEnum accepts one of a fixed set of options.
	FieldEnum FieldType = "enum"
)

// FieldOption describes a single selectable value for a field.
type FieldOption struct {
	Value       string
	Description string
}

// FieldDef describes a single config field's type and valid options.
type FieldDef struct {
	Key     string
	Type    FieldType
	Options []FieldOption
	Default string
}

// fields is the registry of config fields with constrained values.
var fields = []FieldDef{
	{
		Key:  "approvals.mode",
		Type: FieldEnum,
		Options: []FieldOption{
			{Value: ApprovalModeDefault, Description: messages.ApprovalModeDefaultDescription},
			{Value: ApprovalModeYOLO, Description: messages.ApprovalModeYOLODescription},
		},
		Default: ApprovalModeDefault,
	},
	{
		Key:     "user.claude_mcp",
		Type:    FieldBool,
		Options: []FieldOption{{Value: "true", Description: messages.UserClaudeMCPDescription}, {Value: "false"}},
		Default: "false",
	},
	{
		Key:     "user.gemini_trust",
		Type:    FieldBool,
		Options: []FieldOption{{Value: "true", Description: messages.UserGeminiTrustDescription}, {Value: "false"}},
		Default: "false",
	},
	{
		Key:  "warnings.noise_mode",
		Type: FieldEnum,
		Options: []FieldOption{
			{Value: NoiseModeDefault, Description: messages.NoiseModeDefaultDescription},
			{Value: NoiseModeReduce, Description: messages.NoiseModeReduceDescription},
			{Value: NoiseModeQuiet, Description: messages.NoiseModeQuietDescription},
		},
		Default: NoiseModeDefault,
	},
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.Key] = i
	}
	return idx
}()

// LookupField returns the field definition for the given config key.
func LookupField(key string) (FieldDef, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return FieldDef{}, false
	}
	return copyFieldDef(fields[i]), true
}

// FieldOptionValues returns the option values for a field as a plain string slice.
// Returns nil when the key is not in the registry.
func FieldOptionValues(key string) []string {
	f, ok := LookupField(key)
	if !ok || len(f.Options) == 0 {
		return nil
	}
	values := make([]string, len(f.Options))
	for i, opt := range f.Options {
		values[i] = opt.Value
	}
	return values
}

func copyFieldDef(f FieldDef) FieldDef {
	if len(f.Options) > 0 {
		opts := make([]FieldOption, len(f.Options))
		copy(opts, f.Options)
		f.Options = opts
	}
	return f
}
