package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/shipmk/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shipmk/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shipmk/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shipmk/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shipmk/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/shipmk/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.NodeID,
			cas.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewScheduler(executor, hasher, store, tel, log), nil
		},
	})
}
