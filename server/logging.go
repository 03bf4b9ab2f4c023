package server

import (
	"log/slog"
	"os"
	"strings"
)

// InitSlog configures the default slog logger from the LOG_LEVEL
// environment variable (debug, info, warn, error; default info when
// unset or unrecognized). Every connection-scoped logger derives from
// this default via slog.With.
func InitSlog() {
	level := slog.LevelInfo
	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		switch strings.ToLower(raw) {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// connLogger returns a logger tagged with the remote peer's address so
// every line for one connection can be grepped out of the server's
// combined log stream.
func connLogger(peer string) *slog.Logger {
	return slog.Default().With("peer", peer)
}
