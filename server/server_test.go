package server_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theopfr/cachew-db/testutil"
	"github.com/theopfr/cachew-db/value"
)

func TestEndToEndSetGetOverLoopback(t *testing.T) {
	h := testutil.Start(t, "s3cret", value.Str)
	conn := h.Dial()
	defer conn.Close()

	assert.Contains(t, conn.Send(`SET a "1"`), "notAuthenticated")

	assert.Equal(t, "CASP/OK/AUTH/Authentication succeeded./\n", conn.Send("AUTH s3cret"))
	assert.Equal(t, "CASP/OK/SET/\n", conn.Send(`SET greeting "hello"`))
	assert.Equal(t, "CASP/OK/STR/GET/\"hello\"/\n", conn.Send("GET greeting"))
	assert.Equal(t, "CASP/OK/BOOL/EXISTS/true/\n", conn.Send("EXISTS greeting"))
	assert.Equal(t, "CASP/OK/INT/LEN/1/\n", conn.Send("LEN"))
}

func TestEndToEndPingAlwaysAllowed(t *testing.T) {
	h := testutil.Start(t, "s3cret", value.Int)
	conn := h.Dial()
	defer conn.Close()

	assert.Equal(t, "CASP/OK/PING/PONG/\n", conn.Send("PING"))
}

func TestEndToEndShutdownRepliesOK(t *testing.T) {
	h := testutil.Start(t, "s3cret", value.Int)
	conn := h.Dial()

	conn.Send("AUTH s3cret")
	resp := conn.Send("SHUTDOWN")
	assert.Equal(t, "CASP/OK/SHUTDOWN/\n", resp)
	conn.Close()
}

// TestEndToEndShutdownDrainsIdleConnections pins down spec.md §4.7's
// "process exits once all connection tasks have drained": an idle
// connection with no in-flight command must not stop that drain. If
// it did, the harness's t.Cleanup(h.Stop) would hang until the test
// times out.
func TestEndToEndShutdownDrainsIdleConnections(t *testing.T) {
	h := testutil.Start(t, "s3cret", value.Int)

	idle := h.Dial()
	idle.Send("AUTH s3cret")
	defer idle.Close()

	shutdowner := h.Dial()
	defer shutdowner.Close()
	shutdowner.Send("AUTH s3cret")
	resp := shutdowner.Send("SHUTDOWN")
	assert.Equal(t, "CASP/OK/SHUTDOWN/\n", resp)
}
