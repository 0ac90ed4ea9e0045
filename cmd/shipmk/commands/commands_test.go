package commands_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shipmk/cmd/shipmk/commands"
	"go.trai.ch/shipmk/internal/adapters/telemetry"
	"go.trai.ch/shipmk/internal/app"
	"go.trai.ch/shipmk/internal/build"
	"go.trai.ch/shipmk/internal/core/domain"
	"go.trai.ch/shipmk/internal/core/ports/mocks"
	"go.trai.ch/shipmk/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	cli      *commands.CLI
	out      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	executor := mocks.NewMockExecutor(ctrl)
	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().ComputeInputHash(gomock.Any(), gomock.Any()).Return("hash", nil).AnyTimes()
	store := mocks.NewMockBuildInfoStore(ctrl)
	store.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	sched := scheduler.NewScheduler(executor, hasher, store, telemetry.NewNoOp(), log)
	application := app.New(loader, sched, telemetry.NewNoOp())

	cli := commands.New(&app.Components{
		App:    application,
		Logger: log,
		Loader: loader,
	})

	out := new(bytes.Buffer)
	cli.SetOutput(out, out)

	return &fixture{loader: loader, executor: executor, cli: cli, out: out}
}

func (f *fixture) manifest(t *testing.T, targets ...*domain.Target) {
	t.Helper()
	g := domain.NewGraph()
	for _, target := range targets {
		require.NoError(t, g.AddTarget(target))
	}
	require.NoError(t, g.Validate())
	f.loader.EXPECT().Load(".").Return(&domain.Manifest{Graph: g}, nil)
}

func TestRoot_DefaultTarget(t *testing.T) {
	f := newFixture(t)
	f.manifest(t,
		&domain.Target{
			Name: domain.NewInternedString("all"),
			Prerequisites: []domain.InternedString{
				domain.NewInternedString("build"),
				domain.NewInternedString("push"),
			},
		},
		&domain.Target{Name: domain.NewInternedString("build"), Commands: []string{"true"}},
		&domain.Target{Name: domain.NewInternedString("push"), Commands: []string{"true"}},
	)

	var executed []string
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, target *domain.Target, _ []string, _, _ io.Writer) error {
			executed = append(executed, target.Name.String())
			return nil
		}).Times(3)

	f.cli.SetArgs([]string{})
	require.NoError(t, f.cli.Execute(context.Background()))

	// No arguments runs the all target and its prerequisites.
	assert.Equal(t, []string{"build", "push", "all"}, executed)
}

func TestRoot_ExplicitTargets(t *testing.T) {
	f := newFixture(t)
	f.manifest(t,
		&domain.Target{Name: domain.NewInternedString("build"), Commands: []string{"true"}},
		&domain.Target{Name: domain.NewInternedString("push"), Commands: []string{"true"}},
	)

	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, target *domain.Target, _ []string, _, _ io.Writer) error {
			assert.Equal(t, "build", target.Name.String())
			return nil
		})

	f.cli.SetArgs([]string{"build"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestRoot_VarFlag(t *testing.T) {
	f := newFixture(t)
	f.manifest(t, &domain.Target{
		Name:     domain.NewInternedString("build"),
		Commands: []string{"$(DOCKER) build ."},
	})

	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, target *domain.Target, _ []string, _, _ io.Writer) error {
			assert.Equal(t, []string{"docker build ."}, target.Commands)
			return nil
		})

	f.cli.SetArgs([]string{"build", "--var", "DOCKER=docker"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestRoot_InvalidVarFlag(t *testing.T) {
	f := newFixture(t)

	f.cli.SetArgs([]string{"build", "--var", "MISSING_EQUALS"})
	err := f.cli.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --var")
}

func TestRoot_ConfigFlag(t *testing.T) {
	f := newFixture(t)
	f.manifest(t, &domain.Target{Name: domain.NewInternedString("build"), Commands: []string{"true"}})
	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	// The mock loader ignores the filename; this exercises the flag plumbing.
	f.cli.SetArgs([]string{"build", "--config", "custom.yaml"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.manifest(t,
		&domain.Target{
			Name:        domain.NewInternedString("build"),
			Commands:    []string{"podman build ."},
			Description: "Build the container image",
		},
		&domain.Target{Name: domain.NewInternedString("all")},
	)

	f.cli.SetArgs([]string{"list"})
	require.NoError(t, f.cli.Execute(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "build\tBuild the container image")
	assert.Contains(t, out, "\tpodman build .")
	assert.Contains(t, out, "all")

	// Sorted: all before build.
	assert.Less(t, strings.Index(out, "all"), strings.Index(out, "build"))
}

func TestVersion(t *testing.T) {
	f := newFixture(t)

	f.cli.SetArgs([]string{"version"})
	require.NoError(t, f.cli.Execute(context.Background()))

	assert.Equal(t, build.Version+"\n", f.out.String())
}
