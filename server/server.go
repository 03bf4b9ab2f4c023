// Package server implements CachewDB's TCP front end (spec.md §4.7,
// §5): the accept loop, one goroutine per connection, and graceful
// shutdown, adapted from the teacher's errgroup-based concurrency
// helper (database/concurrent.go) into a long-lived connection
// supervisor instead of a bounded parallel map.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theopfr/cachew-db/keyspace"
	"github.com/theopfr/cachew-db/protocol"
	"github.com/theopfr/cachew-db/session"
	"github.com/theopfr/cachew-db/value"
)

// Config is everything a Server needs to bind and authorize
// connections.
type Config struct {
	Host     string
	Port     int
	Password string
	Declared value.DeclaredType
}

// Server owns the single shared keyspace engine and accepts CASP
// connections against it.
type Server struct {
	cfg    Config
	engine *keyspace.Engine

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}
}

// New returns a Server with a fresh, empty keyspace.
func New(cfg Config) *Server {
	return &Server{cfg: cfg, engine: keyspace.New(), conns: make(map[net.Conn]struct{})}
}

func (s *Server) trackConn(conn net.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrackConn(conn net.Conn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, conn)
}

// closeAllConns is invoked once shutdown has been signalled. It expires
// every tracked connection's read deadline: a goroutine parked in a
// blocking socket read gets an error at once and closes its connection
// (no command is in flight, so there is nothing to finish), while a
// goroutine in the middle of a command can still write its reply and
// then sees ctx done and closes. The connection that issued SHUTDOWN
// has already untracked itself by the time this runs (see handleConn).
func (s *Server) closeAllConns() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for conn := range s.conns {
		_ = conn.SetReadDeadline(time.Now())
	}
}

// Serve binds a TCP listener for cfg.Host:cfg.Port and serves
// connections until ctx is cancelled or a client issues SHUTDOWN. It
// returns nil on a graceful shutdown and a non-nil error only if
// binding the listener itself failed, or the accept loop failed for a
// reason other than the shutdown-triggered Close.
func (s *Server) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener runs the accept loop against an already-bound
// listener, closing it itself once ctx is cancelled or a connection
// requests shutdown. Exposed separately from Serve so tests can bind
// an ephemeral loopback port ahead of time.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	slog.Info("cachewdb listening", "addr", ln.Addr().String(), "type", s.cfg.Declared.String())

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-egCtx.Done()
		ln.Close()
		s.closeAllConns()
		return nil
	})

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-egCtx.Done():
				_ = eg.Wait()
				slog.Info("cachewdb shut down")
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}

		s.trackConn(conn)
		eg.Go(func() error {
			s.handleConn(egCtx, conn, cancel)
			return nil
		})
	}
}

// handleConn owns one connection end to end: one session, one
// goroutine, no shared mutable state besides the keyspace engine
// (which guards itself). It checks ctx between frames rather than
// mid-command, so a command already being processed always finishes
// and gets its reply written before the connection closes.
func (s *Server) handleConn(ctx context.Context, conn net.Conn, requestShutdown func()) {
	defer s.untrackConn(conn)
	defer conn.Close()

	peer := conn.RemoteAddr().String()
	logger := connLogger(peer)
	logger.Info("connection opened")
	defer logger.Info("connection closed")

	sess := session.New(s.cfg.Password, s.cfg.Declared, s.engine)
	reader := bufio.NewReader(conn)

	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("read failed", "error", err)
			}
			return
		}

		payload, ferr := protocol.ParseFrame(raw)
		var resp string
		var shutdownRequested bool
		if ferr != nil {
			resp = protocol.FormatError(ferr)
		} else {
			resp, shutdownRequested = sess.Handle(payload)
		}

		if _, err := conn.Write([]byte(resp)); err != nil {
			logger.Warn("write failed", "error", err)
			return
		}

		// The OK/SHUTDOWN reply is now written and flushed to the
		// socket (spec.md §4.7: reply, then signal, then close this
		// connection). Untrack before signalling so closeAllConns's
		// sweep of the other connections never races this one's own
		// close below.
		if shutdownRequested {
			logger.Info("shutdown requested")
			s.untrackConn(conn)
			requestShutdown()
			return
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
