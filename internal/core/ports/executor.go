package ports

import (
	"context"
	"io"

	"go.trai.ch/shipmk/internal/core/domain"
)

// Executor defines the interface for executing targets.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the target's commands in order through the host shell,
	// stopping at the first failure.
	//
	// The env parameter contains additional environment variables in
	// "KEY=VALUE" form, layered over the process environment. Command output
	// is streamed to stdout and stderr as it is produced; standard input is
	// inherited from the process.
	Execute(ctx context.Context, target *domain.Target, env []string, stdout, stderr io.Writer) error
}
