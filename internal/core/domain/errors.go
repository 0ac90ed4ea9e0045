package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrTargetAlreadyExists is returned when adding a target whose name is taken.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrMissingPrerequisite is returned when a target names a prerequisite that is not defined.
	ErrMissingPrerequisite = zerr.New("missing prerequisite")

	// ErrCycleDetected is returned when the prerequisite graph contains a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTargetNotFound is returned when a requested target is not defined.
	ErrTargetNotFound = zerr.New("target not found")

	// ErrVariableCycle is returned when a variable references itself.
	ErrVariableCycle = zerr.New("variable reference cycle")
)

// ExitCode extracts the process exit code to report for err.
// The outermost "exit_code" metadata in the chain wins, which corresponds to
// the first failing subprocess. Errors without one map to 1, nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	for current := err; current != nil; current = errors.Unwrap(current) {
		if zErr, ok := current.(*zerr.Error); ok {
			if code, ok := zErr.Metadata()["exit_code"].(int); ok {
				return code
			}
		}
	}
	return 1
}
