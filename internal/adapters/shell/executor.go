// Package shell provides the host-shell executor adapter.
package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/shipmk/internal/core/domain"
	"go.trai.ch/shipmk/internal/core/ports"
	"go.trai.ch/zerr"
)

// shellName is the shell used to interpret command lines, resolved against
// the command environment's PATH.
const shellName = "sh"

// Executor implements ports.Executor using os/exec and the host shell.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new shell Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the target's commands in order via `sh -c`, stopping at the
// first failure. The environment layering is (low to high priority):
//
//  1. os.Environ() (system base)
//  2. env (resolved run variables)
//  3. target.Environment (per-target overrides)
//
// Standard input is inherited from the process. Output is streamed line by
// line to the logger and verbatim to the provided writers.
func (e *Executor) Execute(ctx context.Context, target *domain.Target, env []string, stdout, stderr io.Writer) error {
	cmdEnv := resolveEnvironment(os.Environ(), env, target.Environment)

	// Resolve the shell against the constructed environment's PATH so that
	// PATH overrides take effect.
	shell := shellName
	if lp, err := lookPath(shellName, cmdEnv); err == nil {
		shell = lp
	}

	for _, line := range target.Commands {
		if err := e.runCommand(ctx, target, shell, line, cmdEnv, stdout, stderr); err != nil {
			return err
		}
	}

	return nil
}

func (e *Executor) runCommand(
	ctx context.Context,
	target *domain.Target,
	shell, line string,
	cmdEnv []string,
	stdout, stderr io.Writer,
) error {
	cmd := exec.CommandContext(ctx, shell, "-c", line) //nolint:gosec // user provided command

	if target.WorkingDir.String() != "" {
		cmd.Dir = target.WorkingDir.String()
	}
	cmd.Env = cmdEnv
	cmd.Stdin = os.Stdin

	stdoutLog := &logWriter{logger: e.logger, level: "info"}
	stderrLog := &logWriter{logger: e.logger, level: "error"}
	cmd.Stdout = io.MultiWriter(stdoutLog, stdout)
	cmd.Stderr = io.MultiWriter(stderrLog, stderr)

	e.logger.Info(line)

	err := cmd.Run()

	// Flush any unterminated trailing output.
	_ = stdoutLog.Close()
	_ = stderrLog.Close()

	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(
			zerr.With(zerr.Wrap(err, "command failed"), "command", line),
			"exit_code", exitCode,
		)
	}

	return nil
}

// logWriter buffers subprocess output and forwards complete lines to the
// logger.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}

// resolveEnvironment merges environment variables with the defined priority.
func resolveEnvironment(sysEnv, runEnv []string, targetEnv map[string]string) []string {
	envMap := make(map[string]string)
	order := make([]string, 0, len(sysEnv)+len(runEnv)+len(targetEnv))

	set := func(entry string) {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			return
		}
		if _, exists := envMap[k]; !exists {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for _, entry := range sysEnv {
		set(entry)
	}
	for _, entry := range runEnv {
		set(entry)
	}
	for k, v := range targetEnv {
		set(k + "=" + v)
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
