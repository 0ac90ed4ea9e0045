package domain

// TargetStatus represents the lifecycle state of a target during a run.
type TargetStatus string

const (
	// StatusPending indicates the target is waiting for prerequisites or scheduling.
	StatusPending TargetStatus = "pending"
	// StatusRunning indicates the target is currently executing.
	StatusRunning TargetStatus = "running"
	// StatusCompleted indicates the target executed successfully.
	StatusCompleted TargetStatus = "completed"
	// StatusFailed indicates the target execution failed.
	StatusFailed TargetStatus = "failed"
	// StatusCached indicates the target was skipped because its inputs were unchanged.
	StatusCached TargetStatus = "cached"
)

// IsTerminal reports whether the status is a terminal state.
func (s TargetStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCached:
		return true
	default:
		return false
	}
}
