package config

// Config is the raw canonical configuration read from .agentsync/config.toml.
type Config struct {
	Tools      ToolsConfig       `toml:"tools"`
	Standards  map[string]string `toml:"standards"`
	Selections SelectionsConfig  `toml:"selections"`
	Approvals  ApprovalsConfig   `toml:"approvals"`
	User       UserConfig        `toml:"user"`
	Warnings   WarningsConfig    `toml:"warnings"`
}

// ToolsConfig lists the tools to render for.
type ToolsConfig struct {
	Enabled []string `toml:"enabled"`
}

// SelectionsConfig lists catalog and agent ids to install.
type SelectionsConfig struct {
	Skills []string `toml:"skills"`
	Agents []string `toml:"agents"`
	MCP    []string `toml:"mcp"`
}

// ApprovalsConfig controls how much the rendered tools may do without asking.
type ApprovalsConfig struct {
	Mode string `toml:"mode"`
}

// UserConfig holds opt-ins for user-scope (home directory) writes.
type UserConfig struct {
	ClaudeMCP   bool `toml:"claude_mcp"`
	GeminiTrust bool `toml:"gemini_trust"`
}

// WarningsConfig controls which non-fatal warnings the CLI prints.
type WarningsConfig struct {
	NoiseMode string `toml:"noise_mode"`
}

// Approval modes.
const (
	ApprovalModeDefault = "default"
	ApprovalModeYOLO    = "yolo"
)

// Warning noise modes.
const (
	NoiseModeDefault = "default"
	NoiseModeReduce  = "reduce"
	NoiseModeQuiet   = "quiet"
)

// InstructionFile is one fragment from .agentsync/instructions.
type InstructionFile struct {
	Name    string
	Content string
}

// AgentFile is one selected agent definition from .agentsync/agents.
type AgentFile struct {
	ID      string
	Content string
}

// ProjectConfig is everything loaded from .agentsync except the catalog.
type ProjectConfig struct {
	Config       Config
	Instructions []InstructionFile
	Agents       []AgentFile
	Root         string
}
