package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/scraper/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
