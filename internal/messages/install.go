package messages

// Install messages for scaffolding .agentsync.
const (
	InstallRootRequired     = "install root is required"
	InstallSystemRequired   = "install system is required"
	InstallWalkTemplatesFmt = "walk templates: %w"
	InstallReadTemplateFmt  = "read template %s: %w"
)
