package messages

// Plan messages for action construction, normalization, and accumulation.
const (
	// PlanPathRequiredFmt formats errors for non-noop actions without a path.
	PlanPathRequiredFmt         = "%s action requires a path"
	PlanPathAbsoluteFmt         = "project path %q must be relative"
	PlanPathDriveLetterFmt      = "project path %q must not be a drive-letter path"
	PlanPathTraversalFmt        = "project path %q must not contain a parent-directory component"
	PlanPathControlCharFmt      = "path %q contains control characters"
	PlanInvalidScopeFmt         = "invalid scope %q (allowed: project, user)"
	PlanInvalidActionKindFmt    = "invalid action kind %q"
	PlanMergePatchInvalidFmt    = "merge_json patch for %s is not valid JSON: %w"
	PlanMergePatchNotObjectFmt  = "merge_json patch for %s must be a JSON object"
	PlanGitignorePatternEmpty   = "ensure_gitignore pattern is empty"
	PlanGitignorePatternLineFmt = "ensure_gitignore pattern %q must be a single line"
	PlanDecodeActionFmt         = "decode action: %w"
	PlanDecodeContentFmt        = "decode content for %s: %w"
	PlanResolveHomeFmt          = "resolve home directory: %w"
	PlanResolveLocationFmt      = "resolve location for %s: %w"
)
