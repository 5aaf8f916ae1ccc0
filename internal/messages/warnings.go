package messages

// Warning messages for non-fatal report entries.
const (
	WarningsConsentRequiredFix = "Re-run apply with --allow-user, or confirm the prompt, to write user-scope files."
	WarningsApplyPathFailedFmt = "could not apply %s operation"
	WarningsApplyPathFailedFix = "Check permissions and free space for the path, then re-run apply."
	WarningsSecretRedactedFmt  = "diff contains %d secret-like value(s); they were masked in the preview"
	WarningsSecretRedactedFix  = "Move secrets into environment variables instead of committed config files."
	WarningsDiffTruncatedFmt   = "diff truncated (%s)"
	WarningsDiffTruncatedFix   = "Open the file after apply, or inspect the plan with --json."
	WarningsSkillManifest      = "skill manifest does not follow recommended conventions"
	WarningsSkillManifestFix   = "Edit SKILL.md front matter in the skill source."

	WarningsPolicySecretInURL      = "mcp server URL appears to contain a literal secret-like value"
	WarningsPolicySecretInURLFix   = "Move secrets out of URL query/userinfo. Use ${VAR} placeholders instead."
	WarningsPolicySecretLiteralFmt = "mcp server %s contains a literal secret-like value"
	WarningsPolicySecretLiteralFix = "Replace the literal with a ${VAR} placeholder resolved by the tool at runtime."
	WarningsPolicyYOLOAck          = "[yolo] permission prompts disabled for supported tools"
	WarningsPolicyYOLOAckFix       = "Set approvals.mode = \"default\" to restore prompts."
	WarningsNoiseModeInvalidFmt    = "unknown warnings noise mode %q; expected one of: %s, %s, %s"
	WarningsNoiseModeInvalidFix    = "Set warnings.noise_mode to default, reduce, or quiet."
)
