// Package scheduler implements the target execution engine.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/shipmk/internal/core/domain"
	"go.trai.ch/shipmk/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options configures a single run.
type Options struct {
	// Parallelism bounds concurrent targets. 1 gives fully sequential
	// execution in topological order.
	Parallelism int

	// Env contains the resolved run variables in "KEY=VALUE" form, layered
	// over the process environment by the executor.
	Env []string

	// Root is the directory that input paths are resolved against.
	Root string

	// SkipUnchanged skips targets whose input hash matches the stored
	// build info.
	SkipUnchanged bool

	// Force disables the unchanged check even when SkipUnchanged is set.
	Force bool
}

// Scheduler executes the targets of a validated graph, prerequisites first,
// aborting the run at the first failure.
type Scheduler struct {
	executor  ports.Executor
	hasher    ports.Hasher
	store     ports.BuildInfoStore
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.RWMutex
	status map[domain.InternedString]domain.TargetStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(
	executor ports.Executor,
	hasher ports.Hasher,
	store ports.BuildInfoStore,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor:  executor,
		hasher:    hasher,
		store:     store,
		telemetry: telemetry,
		logger:    logger,
		status:    make(map[domain.InternedString]domain.TargetStatus),
	}
}

// Status returns the last observed status of a target.
func (s *Scheduler) Status(name domain.InternedString) domain.TargetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[name]
}

func (s *Scheduler) setStatus(name domain.InternedString, status domain.TargetStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

// Run executes the graph. The graph must have been validated.
//
// Targets are launched in topological order into an errgroup bounded by
// Options.Parallelism; each target additionally waits for its prerequisites
// to finish before running. Launching in topological order guarantees that
// the earliest occupied slot is always runnable, so the bounded group cannot
// deadlock. The first failure cancels the group context, which kills any
// running subprocess, and is returned.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, opts Options) error {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.Root == "" {
		opts.Root = "."
	}

	done := make(map[domain.InternedString]chan struct{}, graph.TargetCount())
	for target := range graph.Walk() {
		done[target.Name] = make(chan struct{})
		s.setStatus(target.Name, domain.StatusPending)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)

	for target := range graph.Walk() {
		g.Go(func() error {
			for _, pre := range target.Prerequisites {
				select {
				case <-done[pre]:
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			if err := s.runTarget(gctx, &target, opts); err != nil {
				return err
			}

			close(done[target.Name])
			return nil
		})
	}

	return g.Wait()
}

func (s *Scheduler) runTarget(ctx context.Context, target *domain.Target, opts Options) error {
	name := target.Name.String()
	vctx, vertex := s.telemetry.Record(ctx, name)

	s.setStatus(target.Name, domain.StatusRunning)

	if s.checkUnchanged(target, opts) {
		s.setStatus(target.Name, domain.StatusCached)
		vertex.Cached()
		vertex.Complete(nil)
		s.logger.Info(name + ": unchanged, skipping")
		return nil
	}

	start := time.Now()
	err := s.executor.Execute(vctx, target, opts.Env, vertex.Stdout(), vertex.Stderr())
	if err != nil {
		s.setStatus(target.Name, domain.StatusFailed)
		vertex.Complete(err)
		return zerr.With(zerr.Wrap(err, "target execution failed"), "target", name)
	}

	s.setStatus(target.Name, domain.StatusCompleted)
	vertex.Complete(nil)
	s.recordBuildInfo(target, opts, time.Since(start))
	return nil
}

// checkUnchanged reports whether the target can be skipped. Hash failures
// never block the run; they only disable the skip.
func (s *Scheduler) checkUnchanged(target *domain.Target, opts Options) bool {
	if !opts.SkipUnchanged || opts.Force || target.IsAlias() {
		return false
	}

	hash, err := s.hasher.ComputeInputHash(target, opts.Root)
	if err != nil {
		s.logger.Warn(target.Name.String() + ": input hash unavailable, running anyway")
		return false
	}

	info, err := s.store.Get(target.Name.String())
	return err == nil && info != nil && info.InputHash == hash
}

// recordBuildInfo persists the run result for future unchanged checks.
// Failures here are not fatal: the next run simply will not skip.
func (s *Scheduler) recordBuildInfo(target *domain.Target, opts Options, elapsed time.Duration) {
	if target.IsAlias() {
		return
	}

	hash, err := s.hasher.ComputeInputHash(target, opts.Root)
	if err != nil {
		s.logger.Warn(target.Name.String() + ": input hash unavailable, not recording build info")
		return
	}

	info := domain.BuildInfo{
		TargetName: target.Name.String(),
		InputHash:  hash,
		Duration:   elapsed,
		Timestamp:  time.Now(),
	}
	if err := s.store.Put(info); err != nil {
		s.logger.Warn(target.Name.String() + ": failed to record build info")
	}
}
