// Package cachewdb is CachewDB's library entrypoint: Config plus Run,
// kept independent of any CLI flag-parsing concern (spec.md §6) the
// same way the teacher's root sqldef package wraps CLI-independent
// apply logic for cmd/mysqldef and its siblings to call into.
package cachewdb

import (
	"context"

	"github.com/theopfr/cachew-db/server"
	"github.com/theopfr/cachew-db/value"
)

// Config is the full set of knobs a CachewDB instance needs to start:
// where to listen, the AUTH password, and the DeclaredType it is
// fixed to for its lifetime.
type Config struct {
	Host     string
	Port     int
	Password string
	Type     value.DeclaredType
}

// Run starts a CachewDB server bound to cfg and blocks until ctx is
// cancelled or a client issues SHUTDOWN.
func Run(ctx context.Context, cfg Config) error {
	srv := server.New(server.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		Declared: cfg.Type,
	})
	return srv.Serve(ctx)
}
