// Command showcase-submit logs in to the showcase backend and submits projects
// from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"showcase/internal/client/api"
	"showcase/internal/client/cli"
	"showcase/internal/client/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	path, err := session.DefaultPath()
	if err != nil {
		return err
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	app := cli.NewApp(session.NewStore(path), api.New(api.BaseURLFromEnv()), wd, os.Stdout)
	return app.Run(ctx, args)
}
