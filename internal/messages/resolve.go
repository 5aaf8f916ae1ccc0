package messages

// Resolve, catalog, fetch, and skill messages.
const (
	ResolveUnknownToolFmt         = "tool %q (known: %v)"
	CatalogInvalidFmt             = "invalid catalog %s: %w"
	CatalogEntryIDRequiredFmt     = "%s: %s[%d] id is required"
	CatalogEntryIDDuplicateFmt    = "%s: %s[%d] id %q duplicates entry %d"
	CatalogSkillSourceRequiredFmt = "%s: skill %q requires a source"
	CatalogSourceTypeInvalidFmt   = "%s: %s %q source type %q must be git or local"
	CatalogSourceLocationFmt      = "%s: %s %q source location is required"
	CatalogSubpathInvalidFmt      = "%s: %s %q source subpath %q must be relative without .."
	CatalogMCPTransportInvalidFmt = "%s: mcp %q transport %q must be stdio or http"
	CatalogMCPCommandRequiredFmt  = "%s: mcp %q uses stdio and requires a command"
	CatalogMCPURLRequiredFmt      = "%s: mcp %q uses http and requires a url"
	CatalogNotFoundFmt            = "%s %q: ID not found in catalog"
	FetchUnsupportedSourceFmt     = "source %s"
	FetchMaterializeFmt           = "materialize %s: %w"
	FetchSubpathMissingFmt        = "materialize %s: subpath %q not found: %w"
	SkillManifestReadFmt          = "read skill manifest %s: %w"
	SkillManifestFrontMatterFmt   = "%s: SKILL.md must start with YAML front matter delimited by ---"
	SkillManifestYAMLFmt          = "%s: invalid front matter: %w"
	SkillManifestFieldFmt         = "%s: front matter %q is required"
	SkillFindingUnknownFieldFmt   = "unknown front matter field %q"
	SkillFindingNameTooLongFmt    = "name exceeds %d characters (%d)"
	SkillFindingNameInvalid       = "name must contain only lowercase letters, digits, and single hyphens"
	SkillFindingNameMismatchFmt   = "name %q does not match selected id %q"
	SkillFindingDescTooLongFmt    = "description exceeds %d characters (%d)"
	SkillFindingSizeFmt           = "SKILL.md is %d lines; keep it under %d when possible"
)
