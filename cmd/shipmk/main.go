// Package main is the entry point for the shipmk task runner.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/shipmk/cmd/shipmk/commands"
	"go.trai.ch/shipmk/internal/app"
	"go.trai.ch/shipmk/internal/core/domain"
	_ "go.trai.ch/shipmk/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components)

	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		// The first failing subprocess's exit status becomes ours.
		return domain.ExitCode(err)
	}
	return 0
}
