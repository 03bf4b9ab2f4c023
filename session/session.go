// Package session implements the per-connection CASP state machine
// (spec.md §4.5): gating every command except AUTH and PING behind a
// successful authentication, then dispatching authorized commands to
// the keyspace engine and formatting their replies.
package session

import (
	"crypto/subtle"

	"github.com/theopfr/cachew-db/cachewerrors"
	"github.com/theopfr/cachew-db/keyspace"
	"github.com/theopfr/cachew-db/protocol"
	"github.com/theopfr/cachew-db/value"
)

// State is a connection's authentication state.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

// Session holds the state for one TCP connection. It is not
// safe for concurrent use — CachewDB's concurrency model is one
// goroutine per connection, and a Session belongs to exactly one.
type Session struct {
	state    State
	password string
	declared value.DeclaredType
	engine   *keyspace.Engine
}

// New returns a fresh, unauthenticated Session bound to engine and
// gated by password.
func New(password string, declared value.DeclaredType, engine *keyspace.Engine) *Session {
	return &Session{
		password: password,
		declared: declared,
		engine:   engine,
	}
}

// Authenticated reports whether AUTH has already succeeded on this
// connection.
func (s *Session) Authenticated() bool { return s.state == Authenticated }

// Handle parses and executes one CASP payload (the bytes already
// stripped of their CASP/ ... /\n envelope by the framer) and returns
// the fully-framed response to write back to the connection, plus
// whether the caller just authorized a SHUTDOWN. Handle never panics
// or returns an error itself — every failure is rendered as a CASP
// error frame.
//
// Handle deliberately does not trigger shutdown itself: spec.md §4.7
// requires the OK reply to be written and flushed *before* the
// shutdown signal fires, and Handle has no way to know when its
// returned string actually reaches the socket. The caller is
// responsible for writing the response first and only then acting on
// shutdownRequested.
func (s *Session) Handle(payload string) (resp string, shutdownRequested bool) {
	cmd, err := protocol.ParsePayload(payload, s.declared)
	if err != nil {
		return protocol.FormatError(err), false
	}

	if !s.Authenticated() && cmd.Kind != protocol.Auth && cmd.Kind != protocol.Ping {
		return protocol.FormatError(cachewerrors.NotAuthenticated()), false
	}

	switch cmd.Kind {
	case protocol.Auth:
		return s.handleAuth(cmd), false
	case protocol.Ping:
		return protocol.FormatOKMessage(protocol.Ping.WireName(), "PONG"), false
	case protocol.Shutdown:
		return protocol.FormatOK(protocol.Shutdown.WireName()), true
	case protocol.Set:
		s.engine.Set(cmd.Key, cmd.Value)
		return protocol.FormatOK(protocol.Set.WireName()), false
	case protocol.SetMany:
		s.engine.SetMany(toEntries(cmd.Pairs))
		return protocol.FormatOK(protocol.SetMany.WireName()), false
	case protocol.Get:
		v, err := s.engine.Get(cmd.Key)
		if err != nil {
			return protocol.FormatError(err), false
		}
		return protocol.FormatValue(protocol.Get.WireName(), s.declared, v.Render()), false
	case protocol.GetMany:
		vals, err := s.engine.GetMany(cmd.Keys)
		if err != nil {
			return protocol.FormatError(err), false
		}
		return protocol.FormatValue(protocol.GetMany.WireName(), s.declared, protocol.RenderValues(vals)), false
	case protocol.GetRange:
		entries := s.engine.GetRange(cmd.Lower, cmd.Upper)
		return protocol.FormatValue(protocol.GetRange.WireName(), s.declared, protocol.RenderValues(entryValues(entries))), false
	case protocol.Del:
		if err := s.engine.Del(cmd.Key); err != nil {
			return protocol.FormatError(err), false
		}
		return protocol.FormatOK(protocol.Del.WireName()), false
	case protocol.DelMany:
		if err := s.engine.DelMany(cmd.Keys); err != nil {
			return protocol.FormatError(err), false
		}
		return protocol.FormatOK(protocol.DelMany.WireName()), false
	case protocol.DelRange:
		s.engine.DelRange(cmd.Lower, cmd.Upper)
		return protocol.FormatOK(protocol.DelRange.WireName()), false
	case protocol.Clear:
		s.engine.Clear()
		return protocol.FormatOK(protocol.Clear.WireName()), false
	case protocol.Len:
		return protocol.FormatLen(s.engine.Len()), false
	case protocol.Exists:
		return protocol.FormatExists(s.engine.Exists(cmd.Key)), false
	default:
		return protocol.FormatError(cachewerrors.UnknownQueryOperation(cmd.Kind.WireName())), false
	}
}

// handleAuth compares the supplied password against the configured
// one in constant time, so a timing side-channel can't be used to
// recover it byte by byte.
func (s *Session) handleAuth(cmd protocol.Command) string {
	match := subtle.ConstantTimeCompare([]byte(cmd.Password), []byte(s.password)) == 1
	if !match {
		return protocol.FormatError(cachewerrors.AuthenticationFailed())
	}
	s.state = Authenticated
	return protocol.FormatOKMessage(protocol.Auth.WireName(), "Authentication succeeded.")
}

func toEntries(pairs []protocol.Pair) []keyspace.Entry {
	entries := make([]keyspace.Entry, len(pairs))
	for i, p := range pairs {
		entries[i] = keyspace.Entry{Key: p.Key, Value: p.Value}
	}
	return entries
}

func entryValues(entries []keyspace.Entry) []value.Value {
	vals := make([]value.Value, len(entries))
	for i, e := range entries {
		vals[i] = e.Value
	}
	return vals
}
