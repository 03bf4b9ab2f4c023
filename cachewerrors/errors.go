// Package cachewerrors defines the error taxonomy shared by every layer of
// CachewDB's request pipeline: the framer, tokenizer, command parser,
// session gate, and keyspace engine all fail with a *CaspError so the
// response formatter has a single, uniform way to render failures onto
// the wire.
package cachewerrors

import "fmt"

// Kind is the top-level error category rendered as the first segment of
// a CASP error frame.
type Kind string

const (
	Authentication Kind = "AuthenticationError"
	Protocol       Kind = "ProtocolError"
	Parser         Kind = "ParserError"
	Database       Kind = "DatabaseError"
)

// Code is the stable, machine-readable error code nested inside Kind.
type Code string

const (
	CodeNotAuthenticated      Code = "notAuthenticated"
	CodeAuthenticationFailed  Code = "authenticationFailed"
	CodeEmptyRequest          Code = "emptyRequest"
	CodeStartMarkerNotFound   Code = "startMarkerNotFound"
	CodeEndMarkerNotFound     Code = "endMarkerNotFound"
	CodeUnterminatedQuote     Code = "unterminatedQuote"
	CodeUnknownQueryOperation Code = "unknownQueryOperation"
	CodeInvalidKeyValuePair   Code = "invalidKeyValuePair"
	CodeInvalidRange          Code = "invalidRange"
	CodeUnexpectedCharacter   Code = "unexpectedCharacter"
	CodeWrongValueType        Code = "wrongValueType"
	CodeWrongAuthentication   Code = "wrongAuthentication"
	CodeKeyNotFound           Code = "keyNotFound"
	CodeInvalidRangeOrder     Code = "invalidRangeOrder"
)

// CaspError is the one error type that ever reaches the response
// formatter. Kind and Code are wire-stable; Message is a human-readable,
// single-line description. The fixed messages contain no '/'; a message
// that quotes a client-supplied key or command name repeats it as sent,
// so it contains '/' whenever that text does.
type CaspError struct {
	Kind    Kind
	Code    Code
	Message string
}

func (e *CaspError) Error() string {
	return fmt.Sprintf("%s '%s': %s", e.Kind, e.Code, e.Message)
}

func New(kind Kind, code Code, message string) *CaspError {
	return &CaspError{Kind: kind, Code: code, Message: message}
}

// As reports whether err is a *CaspError, unwrapping it for callers that
// need to branch on Kind/Code (e.g. the response formatter, and tests
// checking which Code a call failed with).
func As(err error) (*CaspError, bool) {
	ce, ok := err.(*CaspError)
	return ce, ok
}

func NotAuthenticated() *CaspError {
	return New(Authentication, CodeNotAuthenticated, "this connection has not authenticated")
}

func AuthenticationFailed() *CaspError {
	return New(Authentication, CodeAuthenticationFailed, "password did not match")
}

func EmptyRequest() *CaspError {
	return New(Protocol, CodeEmptyRequest, "request frame was empty")
}

func StartMarkerNotFound() *CaspError {
	return New(Protocol, CodeStartMarkerNotFound, "request did not start with the CASP start marker")
}

func EndMarkerNotFound() *CaspError {
	return New(Protocol, CodeEndMarkerNotFound, "request did not end with the CASP end marker")
}

func UnterminatedQuote() *CaspError {
	return New(Protocol, CodeUnterminatedQuote, "quoted token was never closed")
}

func UnknownQueryOperation(op string) *CaspError {
	return New(Parser, CodeUnknownQueryOperation, fmt.Sprintf("unknown command '%s'", op))
}

func InvalidKeyValuePair(detail string) *CaspError {
	return New(Parser, CodeInvalidKeyValuePair, detail)
}

func InvalidRange(detail string) *CaspError {
	return New(Parser, CodeInvalidRange, detail)
}

func UnexpectedCharacter(detail string) *CaspError {
	return New(Parser, CodeUnexpectedCharacter, detail)
}

func WrongValueType(detail string) *CaspError {
	return New(Parser, CodeWrongValueType, detail)
}

func WrongAuthentication(detail string) *CaspError {
	return New(Parser, CodeWrongAuthentication, detail)
}

func KeyNotFound(key string) *CaspError {
	return New(Database, CodeKeyNotFound, fmt.Sprintf("key %q does not exist", key))
}

func InvalidRangeOrder(lower, upper string) *CaspError {
	return New(Database, CodeInvalidRangeOrder, fmt.Sprintf("lower bound %q is greater than upper bound %q", lower, upper))
}
