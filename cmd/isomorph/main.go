// Package main is the entry point for the isomorph CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/isomorph-labs/isomorph/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
