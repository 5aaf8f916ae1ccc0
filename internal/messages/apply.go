package messages

// Apply messages for execution, backups, and status reporting.
const (
	ApplySystemRequired    = "apply system is required"
	ApplyBackupDirRequired = "apply backup directory is required"
	ApplyConsentRefusedFmt = "user-scope write to %s requires consent"
	ApplyReadFmt           = "read %s: %w"
	ApplyStatFmt           = "stat %s: %w"
	ApplyWriteFmt          = "write %s: %w"
	ApplyMkdirFmt          = "create directory %s: %w"
	ApplyRemoveFmt         = "remove %s: %w"
	ApplyChmodFmt          = "set executable bit on %s: %w"
	ApplyBackupFmt         = "back up %s: %w"
	ApplyBackupManifestFmt = "write backup manifest %s: %w"
	ApplyNotDirectoryFmt   = "%s exists and is not a directory"
	ApplyMissingContentFmt = "no content planned for %s"
)
