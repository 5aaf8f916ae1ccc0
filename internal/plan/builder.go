package plan

// Builder appends actions of a fixed scope to a plan, validating each path before it enters the plan.
type Builder struct {
	plan  *ActionPlan
	scope Scope
}

// NewBuilder returns a builder that appends scope actions to p.
func NewBuilder(p *ActionPlan, scope Scope) *Builder {
	return &Builder{plan: p, scope: scope}
}

// Project returns a project-scope builder for p.
func (p *ActionPlan) Project() *Builder {
	return NewBuilder(p, ScopeProject)
}

// User returns a user-scope builder for p.
func (p *ActionPlan) User() *Builder {
	return NewBuilder(p, ScopeUser)
}

// Scope returns the scope every appended action carries.
func (b *Builder) Scope() Scope {
	return b.scope
}

// Mkdir appends a Mkdir action.
func (b *Builder) Mkdir(path string) error {
	return b.add(NewMkdir(b.scope, path))
}

// BackupFile appends a BackupFile action.
func (b *Builder) BackupFile(path string) error {
	return b.add(NewBackupFile(b.scope, path))
}

// WriteFile appends a WriteFile action.
func (b *Builder) WriteFile(path string, content []byte) error {
	return b.add(NewWriteFile(b.scope, path, content))
}

// MergeJSON appends a MergeJSON action.
func (b *Builder) MergeJSON(path string, patch []byte) error {
	return b.add(NewMergeJSON(b.scope, path, patch))
}

// EnsureGitignore appends an EnsureGitignore action for pattern.
func (b *Builder) EnsureGitignore(pattern string) error {
	return b.add(NewEnsureGitignore(b.scope, pattern))
}

// SetExecutable appends a SetExecutable action.
func (b *Builder) SetExecutable(path string) error {
	return b.add(NewSetExecutable(b.scope, path))
}

func (b *Builder) add(action Action, err error) error {
	if err != nil {
		return err
	}
	return b.plan.Append(action)
}
