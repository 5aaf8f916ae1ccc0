package messages

// CLI command text, flag help, and output formats.
const (
	CLIRootUse   = "agentsync"
	CLIRootShort = "Render one canonical agent configuration into every coding tool's native files"

	CLIResolveUse   = "resolve"
	CLIResolveShort = "Print the canonical resolved configuration as JSON"
	CLIPlanUse      = "plan"
	CLIPlanShort    = "List the operations apply would perform"
	CLIDiffUse      = "diff"
	CLIDiffShort    = "Show redacted diffs of every pending change"
	CLIApplyUse     = "apply"
	CLIApplyShort   = "Write the planned changes, backing up files it replaces"
	CLIInitUse      = "init"
	CLIInitShort    = "Create a starter .agentsync directory"

	CLIFlagRoot      = "project root (default: nearest directory containing .agentsync or .git)"
	CLIFlagTools     = "comma-separated tool ids overriding tools.enabled; an empty value disables all tools"
	CLIFlagVerbose   = "increase log verbosity (repeatable)"
	CLIFlagNoColor   = "disable colored output"
	CLIFlagJSON      = "print the normalized action plan as JSON"
	CLIFlagAllowUser = "allow writes outside the project, in the home directory"
	CLIFlagNoPrompt  = "never prompt; user-scope writes are refused unless --allow-user is set"
	CLIFlagMaxLines  = "maximum diff lines per file (0 uses the default)"
	CLIFlagMaxBytes  = "maximum diff bytes per file (0 uses the default)"
	CLIFlagForce     = "replace starter files that were edited (backups are kept)"

	CLIResolveCwdFmt    = "resolve working directory: %w"
	CLIResolveRootFmt   = "resolve root %s: %w"
	CLIResolveHomeFmt   = "resolve home directory: %w"
	CLIMarshalPlanFmt   = "marshal plan: %w"
	CLIConsentPromptFmt = "Allow agentsync to write %d file(s) in your home directory?"
	CLIConsentFailedFmt = "consent prompt failed: %w"

	CLIPlanLineFmt     = "%-6s %-7s %s%s\n"
	CLIPlanConsentTag  = " (needs consent)"
	CLIPlanExecTag     = " (+x)"
	CLIPlanSummaryFmt  = "%d operation(s)\n"
	CLIPlanEmpty       = "Nothing to do."
	CLIDiffNoChanges   = "No changes."
	CLIDiffBinaryFmt   = "Binary file %s changed\n"
	CLIApplyLineFmt    = "%-9s %s\n"
	CLIApplyFailedFmt  = "  error: %v\n"
	CLIApplyBackupFmt  = "Backups written to %s\n"
	CLIApplySummaryFmt = "%d created, %d updated, %d unchanged, %d refused, %d failed\n"
	CLIInitDoneFmt     = "Initialized %s. Edit .agentsync/config.toml, then run `agentsync plan`.\n"

	VersionTemplate  = "{{.Version}}\n"
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
)
