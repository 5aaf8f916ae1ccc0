package messages

// Sync messages for rendering and pipeline orchestration.
const (
	SyncSystemRequired          = "sync system is required"
	SyncRootRequired            = "sync root is required"
	SyncUnknownRendererFmt      = "no renderer for tool %q"
	SyncRenderFailedFmt         = "render %s: %w"
	SyncMarshalFailedFmt        = "marshal %s: %w"
	SyncSkillNotMaterializedFmt = "skill %q was selected but not materialized"
	SyncSkillFilesFmt           = "read files of skill %q: %w"
	SyncUnsupportedTransportFmt = "mcp server %q: unsupported transport %q"
	SyncReadCatalogFmt          = "read catalog %s: %w"
	SyncResolveLocationFmt      = "resolve %s: %w"

	SyncGeneratedMarkdownHeader = "<!-- Generated by agentsync from .agentsync/instructions. Edit the sources and run `agentsync apply`. -->"
	SyncStandardsHeading        = "## Standards"
	SyncLanguageRuleFmt         = "Always respond in %s."
	SyncStandardRuleFmt         = "%s: %s"
)
