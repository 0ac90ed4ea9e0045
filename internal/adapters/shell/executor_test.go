package shell_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shipmk/internal/adapters/shell"
	"go.trai.ch/shipmk/internal/core/domain"
	"go.trai.ch/shipmk/internal/core/ports"
)

// recordingLogger captures log lines for assertions.
type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warn(string) {}

func (l *recordingLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, err.Error())
}

var _ ports.Logger = (*recordingLogger)(nil)

func newTarget(name string, commands ...string) *domain.Target {
	return &domain.Target{
		Name:     domain.NewInternedString(name),
		Commands: commands,
	}
}

func TestExecute_StreamsOutput(t *testing.T) {
	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	var stdout, stderr bytes.Buffer
	target := newTarget("greet", `printf 'hello\nworld\n'`)

	err := exec.Execute(context.Background(), target, nil, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "hello\nworld\n", stdout.String())
	assert.Empty(t, stderr.String())

	// The command line is logged, then each output line.
	assert.Contains(t, log.infos, `printf 'hello\nworld\n'`)
	assert.Contains(t, log.infos, "hello")
	assert.Contains(t, log.infos, "world")
}

func TestExecute_SequentialCommands(t *testing.T) {
	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	var stdout, stderr bytes.Buffer
	target := newTarget("multi", "echo one", "echo two")

	err := exec.Execute(context.Background(), target, nil, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", stdout.String())
}

func TestExecute_StopsAtFirstFailure(t *testing.T) {
	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	var stdout, stderr bytes.Buffer
	target := newTarget("failing", "echo before", "exit 7", "echo after")

	err := exec.Execute(context.Background(), target, nil, &stdout, &stderr)
	require.Error(t, err)

	assert.Equal(t, "before\n", stdout.String(), "commands after the failure must not run")
	assert.Equal(t, 7, domain.ExitCode(err))
	assert.Contains(t, err.Error(), "command failed")
}

func TestExecute_EnvLayering(t *testing.T) {
	t.Setenv("SHIPMK_TEST_SYS", "sys")
	t.Setenv("SHIPMK_TEST_RUN", "sys")

	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	target := newTarget("env", `printf '%s %s %s\n' "$SHIPMK_TEST_SYS" "$SHIPMK_TEST_RUN" "$SHIPMK_TEST_TARGET"`)
	target.Environment = map[string]string{"SHIPMK_TEST_TARGET": "target"}

	var stdout, stderr bytes.Buffer
	runEnv := []string{"SHIPMK_TEST_RUN=run"}

	err := exec.Execute(context.Background(), target, runEnv, &stdout, &stderr)
	require.NoError(t, err)

	// Run env overrides the system env; target env sits on top of both.
	assert.Equal(t, "sys run target\n", stdout.String())
}

func TestExecute_TargetEnvOverridesRunEnv(t *testing.T) {
	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	target := newTarget("env", `printf '%s\n' "$SHIPMK_TEST_VAR"`)
	target.Environment = map[string]string{"SHIPMK_TEST_VAR": "target"}

	var stdout, stderr bytes.Buffer
	err := exec.Execute(context.Background(), target, []string{"SHIPMK_TEST_VAR=run"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "target\n", stdout.String())
}

func TestExecute_WorkingDir(t *testing.T) {
	dir := t.TempDir()

	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	target := newTarget("wd", "pwd")
	target.WorkingDir = domain.NewInternedString(dir)

	var stdout, stderr bytes.Buffer
	err := exec.Execute(context.Background(), target, nil, &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, dir, strings.TrimSpace(stdout.String()))
}

func TestExecute_StderrRouting(t *testing.T) {
	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	var stdout, stderr bytes.Buffer
	target := newTarget("warn", "echo oops >&2")

	err := exec.Execute(context.Background(), target, nil, &stdout, &stderr)
	require.NoError(t, err)

	assert.Empty(t, stdout.String())
	assert.Equal(t, "oops\n", stderr.String())

	found := false
	for _, msg := range log.errors {
		if strings.Contains(msg, "oops") {
			found = true
			break
		}
	}
	assert.True(t, found, "stderr line should reach the logger, got %v", log.errors)
}

func TestExecute_ContextCancellation(t *testing.T) {
	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	target := newTarget("slow", "sleep 10")

	err := exec.Execute(ctx, target, nil, &stdout, &stderr)
	require.Error(t, err)
}

func TestExecute_NoCommands(t *testing.T) {
	log := &recordingLogger{}
	exec := shell.NewExecutor(log)

	var stdout, stderr bytes.Buffer
	err := exec.Execute(context.Background(), newTarget("alias"), nil, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}
