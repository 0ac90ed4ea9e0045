package ports

import (
	"context"
	"io"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records per-target progress for a run.
type Telemetry interface {
	// Record starts recording a new vertex for the named target and returns
	// a context carrying it.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents a single target's recording.
type Vertex interface {
	// Stdout returns a writer capturing the target's standard output.
	Stdout() io.Writer

	// Stderr returns a writer capturing the target's standard error.
	Stderr() io.Writer

	// Complete marks the vertex as finished, with err nil on success.
	Complete(err error)

	// Cached marks the vertex as skipped due to unchanged inputs.
	Cached()
}

type vertexContextKey struct{}

// ContextWithVertex returns a context carrying the vertex.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexContextKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, or nil.
func VertexFromContext(ctx context.Context) Vertex {
	v, _ := ctx.Value(vertexContextKey{}).(Vertex)
	return v
}
