package messages

// Diff messages for preview rendering.
const (
	DiffTruncatedFmt = "[diff truncated: %s]"
)
