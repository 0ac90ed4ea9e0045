// Package app implements the application layer for shipmk.
package app

import (
	"context"
	"os"
	"sort"
	"strings"

	"go.trai.ch/shipmk/internal/core/domain"
	"go.trai.ch/shipmk/internal/core/ports"
	"go.trai.ch/shipmk/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// RunOptions carries the per-invocation settings from the CLI.
type RunOptions struct {
	// Targets to run, in request order. Must not be empty; the CLI fills in
	// the default target.
	Targets []string

	// Vars are --var overrides. They take precedence over the process
	// environment, which in turn overrides file and builtin definitions.
	Vars map[string]string

	// Jobs bounds concurrent targets; 1 (the default) runs fully
	// sequentially.
	Jobs int

	// SkipUnchanged skips targets whose inputs are unchanged since the last
	// successful run.
	SkipUnchanged bool

	// Force runs every target even when SkipUnchanged is set.
	Force bool
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	telemetry    ports.Telemetry
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, sched *scheduler.Scheduler, telemetry ports.Telemetry) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		telemetry:    telemetry,
	}
}

// Run executes the requested targets: load the manifest, resolve variables,
// expand the graph, restrict it to the prerequisite closure of the request,
// and hand it to the scheduler.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	defer func() { _ = a.telemetry.Close() }()

	manifest, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	vars := domain.NewVarSet(manifest.Vars, environLayer(), opts.Vars)
	if err := vars.Resolve(); err != nil {
		return zerr.Wrap(err, "failed to resolve variables")
	}

	expanded, err := domain.ExpandGraph(manifest.Graph, vars)
	if err != nil {
		return err
	}

	sub, err := expanded.Subgraph(opts.Targets)
	if err != nil {
		return err
	}

	schedOpts := scheduler.Options{
		Parallelism:   opts.Jobs,
		Env:           runEnviron(manifest.Vars, opts.Vars, vars),
		SkipUnchanged: opts.SkipUnchanged,
		Force:         opts.Force,
	}

	if err := a.scheduler.Run(ctx, sub, schedOpts); err != nil {
		return zerr.Wrap(err, "run failed")
	}

	return nil
}

// Manifest loads and returns the current configuration. Used by the list
// command.
func (a *App) Manifest() (*domain.Manifest, error) {
	return a.configLoader.Load(".")
}

// environLayer parses the process environment into a variable layer.
func environLayer() map[string]string {
	env := make(map[string]string)
	for _, entry := range os.Environ() {
		if k, v, ok := strings.Cut(entry, "="); ok {
			env[k] = v
		}
	}
	return env
}

// runEnviron returns the resolved values of the declared variables (file,
// builtin, and --var names) in "KEY=VALUE" form. The executor layers these
// over the full process environment, so only declared names are listed here.
func runEnviron(declared, overrides map[string]string, vars *domain.VarSet) []string {
	names := make(map[string]struct{}, len(declared)+len(overrides))
	for name := range declared {
		names[name] = struct{}{}
	}
	for name := range overrides {
		names[name] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	env := make([]string, 0, len(sorted))
	for _, name := range sorted {
		if val, ok := vars.Lookup(name); ok {
			env = append(env, name+"="+val)
		}
	}
	return env
}
