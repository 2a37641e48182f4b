// Package main is the entry point for the taskview CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskview/internal/backend"
	"taskview/internal/cli"
	"taskview/internal/commands"
	"taskview/internal/config"
	"taskview/internal/repository"
)

func main() {
	// Cancel on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
		return backend.Open(ctx, cfg, cfg.Logger)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
