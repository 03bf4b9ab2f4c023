// Package protocol implements CASP (Cachew Socket Protocol): the wire
// framing, tokenizing, command parsing and response formatting that
// turns bytes on a TCP connection into typed Commands and back into
// bytes (spec.md §4.1, §4.2, §4.3, §4.6).
package protocol

import (
	"strings"

	"github.com/theopfr/cachew-db/cachewerrors"
)

const (
	startMarker = "CASP/"
	endMarker   = "/\n"
)

// ParseFrame strips the CASP/ ... /\n envelope from a raw request line
// and returns the inner payload. It never looks at '/' characters
// inside the payload — that separator belongs to the outer envelope
// only, never to the tokenizer.
func ParseFrame(raw string) (string, error) {
	if raw == "" {
		return "", cachewerrors.EmptyRequest()
	}
	if !strings.HasPrefix(raw, startMarker) {
		return "", cachewerrors.StartMarkerNotFound()
	}
	if len(raw) < len(startMarker)+len(endMarker) || !strings.HasSuffix(raw, endMarker) {
		return "", cachewerrors.EndMarkerNotFound()
	}
	return raw[len(startMarker) : len(raw)-len(endMarker)], nil
}

// FrameResponse wraps a rendered response body in the CASP envelope.
func FrameResponse(body string) string {
	return startMarker + body + endMarker
}
