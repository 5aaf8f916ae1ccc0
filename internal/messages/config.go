package messages

// Config messages for loading and validating .agentsync.
const (
	ConfigFSRequired                 = "config filesystem is required"
	ConfigRootRequired               = "config root is required"
	ConfigMissingFileFmt             = "missing config file %s: %w"
	ConfigInvalidConfigFmt           = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt        = "config %s contains unrecognized keys: %v."
	ConfigValidationGuidance         = "Fix the config file and re-run."
	ConfigApprovalsModeInvalidFmt    = "%s: approvals.mode must be one of %v"
	ConfigToolIDEmptyFmt             = "%s: tools.enabled[%d] is empty"
	ConfigToolIDUnknownFmt           = "%s: tools.enabled[%d] %q is not a known tool (known: %v)"
	ConfigSelectionIDEmptyFmt        = "%s: selections.%s[%d] is empty"
	ConfigWarningNoiseModeInvalidFmt = "%s: warnings.noise_mode %q is invalid (allowed: default, reduce, quiet)"
	ConfigStandardKeyEmptyFmt        = "%s: standards contains an empty key"
	ConfigFailedReadInstructionsFmt  = "failed to read instructions directory %s: %w"
	ConfigFailedReadInstructionFmt   = "failed to read instruction %s: %w"
	ConfigMissingAgentFmt            = "agent %q selected but %s is missing: %w"
	ConfigPathOutsideRootFmt         = "path %s is outside root %s"
	ApprovalModeDefaultDescription   = "Tools ask before running commands or MCP tools"
	ApprovalModeYOLODescription      = "Tools run commands and MCP tools without asking"
	NoiseModeDefaultDescription      = "Print every warning"
	NoiseModeReduceDescription       = "Hide advisory warnings; critical warnings are always printed"
	NoiseModeQuietDescription        = "Print only critical warnings"
	UserGeminiTrustDescription       = "Mark the project as trusted in ~/.gemini/trustedFolders.json (requires consent)"
	UserClaudeMCPDescription         = "Also register selected MCP servers in ~/.claude.json (requires consent)"
)
