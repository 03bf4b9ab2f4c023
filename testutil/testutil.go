// Package testutil provides a loopback CASP test harness: it starts a
// real server.Server on an ephemeral localhost port and hands back
// raw-frame Send/Dial helpers, replacing the teacher's Docker-backed
// SQL fixture harness (testutil/testutil.go) with the same role —
// an integration-test harness other packages' tests drive — built
// around CachewDB's own transport instead of a database container.
package testutil

import (
	"bufio"
	"context"
	"net"
	"testing"

	"github.com/theopfr/cachew-db/server"
	"github.com/theopfr/cachew-db/value"
)

// Harness runs a CachewDB server for the lifetime of a test.
type Harness struct {
	t      *testing.T
	Addr   string
	cancel context.CancelFunc
	done   chan struct{}
}

// Start binds an ephemeral loopback port, starts a server.Server
// against it with the given password and DeclaredType, and registers
// a t.Cleanup to tear it down.
func Start(t *testing.T, password string, declared value.DeclaredType) *Harness {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("testutil: listen: %v", err)
	}

	srv := server.New(server.Config{Password: password, Declared: declared})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := srv.ServeListener(ctx, ln); err != nil {
			t.Logf("testutil: server exited: %v", err)
		}
	}()

	h := &Harness{t: t, Addr: ln.Addr().String(), cancel: cancel, done: done}
	t.Cleanup(h.Stop)
	return h
}

// Stop cancels the server and waits for its accept loop to return.
func (h *Harness) Stop() {
	h.cancel()
	<-h.done
}

// Dial opens a raw TCP connection to the harness's server.
func (h *Harness) Dial() *Conn {
	h.t.Helper()
	c, err := net.Dial("tcp", h.Addr)
	if err != nil {
		h.t.Fatalf("testutil: dial: %v", err)
	}
	return &Conn{t: h.t, conn: c, reader: bufio.NewReader(c)}
}

// Conn is one CASP connection opened against a Harness.
type Conn struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

// Send wraps payload in the CASP envelope, writes it, and returns the
// single raw response line (including its own envelope and trailing
// newline).
func (c *Conn) Send(payload string) string {
	c.t.Helper()
	if _, err := c.conn.Write([]byte("CASP/" + payload + "/\n")); err != nil {
		c.t.Fatalf("testutil: write: %v", err)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil {
		c.t.Fatalf("testutil: read: %v", err)
	}
	return line
}

// Close closes the underlying connection.
func (c *Conn) Close() { c.conn.Close() }
