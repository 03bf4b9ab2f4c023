package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/theopfr/cachew-db"
	"github.com/theopfr/cachew-db/server"
)

func main() {
	server.InitSlog()

	cfg := parseOptions(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cachewdb.Run(ctx, cfg); err != nil {
		slog.Error("cachewdb exited with error", "error", err)
		os.Exit(1)
	}
}
