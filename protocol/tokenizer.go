package protocol

import (
	"strings"

	"github.com/theopfr/cachew-db/cachewerrors"
)

// TokenKind classifies a single lexeme produced by Tokenize.
type TokenKind int

const (
	// Word is a whitespace/comma-delimited bare token: a command name,
	// a bare key, or an unquoted INT/FLOAT/BOOL literal.
	Word TokenKind = iota
	// Quoted is a "..." token with its surrounding quotes retained and
	// any \" escape already resolved to a literal '"'.
	Quoted
	// Comma is the "," pair-separator used inside SET MANY.
	Comma
)

// Token is one lexeme of a CASP payload.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenize scans a CASP payload (the part between the CASP/ and /\n
// markers) into Words, Quoted strings and Comma separators, per
// spec.md §4.2. Whitespace between tokens is discarded; it is never
// itself significant beyond separating tokens.
func Tokenize(payload string) ([]Token, error) {
	var tokens []Token
	i := 0
	n := len(payload)

	for i < n {
		c := payload[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == ',':
			tokens = append(tokens, Token{Kind: Comma, Text: ","})
			i++
		case c == '"':
			tok, next, err := scanQuoted(payload, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		default:
			start := i
			for i < n && payload[i] != ' ' && payload[i] != '\t' && payload[i] != ',' {
				i++
			}
			tokens = append(tokens, Token{Kind: Word, Text: payload[start:i]})
		}
	}

	return tokens, nil
}

// scanQuoted reads a quoted token starting at payload[start] (which
// must be '"'), resolving \" to a literal quote as it goes. The
// returned Token.Text keeps its surrounding quotes so downstream
// value/key parsing can tell a quoted empty string ("") apart from no
// token at all. It returns the index one past the closing quote.
func scanQuoted(payload string, start int) (Token, int, error) {
	var b strings.Builder
	b.WriteByte('"')
	i := start + 1
	n := len(payload)

	for i < n {
		c := payload[i]
		if c == '\\' && i+1 < n && payload[i+1] == '"' {
			b.WriteByte('"')
			i += 2
			continue
		}
		if c == '"' {
			b.WriteByte('"')
			return Token{Kind: Quoted, Text: b.String()}, i + 1, nil
		}
		b.WriteByte(c)
		i++
	}

	return Token{}, 0, cachewerrors.UnterminatedQuote()
}
