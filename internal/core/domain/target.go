package domain

// Target is a single named unit of work: a list of shell command lines and
// the prerequisites that must complete before they run.
type Target struct {
	// Name identifies the target within the graph.
	Name InternedString

	// Commands are the shell command lines, run sequentially.
	Commands []string

	// Prerequisites are names of targets that must complete first, in
	// declared order.
	Prerequisites []InternedString

	// Description is a one-line summary shown by the list command.
	Description string

	// Inputs are files or directories whose content determines whether the
	// target is up to date. Canonicalized (sorted, deduplicated) at load time.
	Inputs []InternedString

	// Environment holds per-target environment overrides.
	Environment map[string]string

	// WorkingDir is the directory the commands run in. Empty means the
	// process working directory.
	WorkingDir InternedString
}

// IsAlias reports whether the target only groups prerequisites and runs no
// commands of its own.
func (t Target) IsAlias() bool {
	return len(t.Commands) == 0
}
