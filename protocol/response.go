package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theopfr/cachew-db/cachewerrors"
	"github.com/theopfr/cachew-db/value"
)

// FormatError renders any error produced by the framer, tokenizer,
// parser, session gate or keyspace engine into a CASP error frame:
// CASP/ERROR/<Kind> '<code>': <description>/\n (spec.md §4.6). Errors
// that did not originate as a *cachewerrors.CaspError are wrapped as
// an opaque ProtocolError so the connection never sees a bare Go
// error leak onto the wire.
func FormatError(err error) string {
	ce, ok := cachewerrors.As(err)
	if !ok {
		ce = cachewerrors.New(cachewerrors.Protocol, "internal", err.Error())
	}
	return FrameResponse("ERROR/" + ce.Error())
}

// FormatOK renders a bodyless, messageless success reply:
// CASP/OK/<CMD>/\n.
func FormatOK(cmdName string) string {
	return FrameResponse("OK/" + cmdName)
}

// FormatOKMessage renders a bodyless success reply that carries a
// fixed confirmation message, used only by AUTH and PING.
func FormatOKMessage(cmdName, message string) string {
	return FrameResponse(fmt.Sprintf("OK/%s/%s", cmdName, message))
}

// FormatValue renders a typed, single-body success reply:
// CASP/OK/<TYPE>/<CMD>/<body>/\n, used by GET, GET MANY, GET RANGE,
// LEN and EXISTS.
func FormatValue(cmdName string, typ value.DeclaredType, body string) string {
	return FrameResponse(fmt.Sprintf("OK/%s/%s/%s", typ.String(), cmdName, body))
}

// RenderValues comma-joins a sequence of values' wire literals, used
// for GET MANY and GET RANGE bodies.
func RenderValues(values []value.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Render()
	}
	return strings.Join(parts, ",")
}

// FormatLen renders LEN's reply: CASP/OK/INT/LEN/<n>/\n.
func FormatLen(n int) string {
	return FormatValue(Len.WireName(), value.Int, strconv.Itoa(n))
}

// FormatExists renders EXISTS's reply: CASP/OK/BOOL/EXISTS/<bool>/\n.
func FormatExists(exists bool) string {
	body := "false"
	if exists {
		body = "true"
	}
	return FormatValue(Exists.WireName(), value.Bool, body)
}
