// Package value implements CachewDB's typed value model (spec.md §3): a
// tagged variant over five cases (STR, INT, FLOAT, BOOL, JSON), the
// DeclaredType each running instance is fixed to at startup, and the
// literal syntax used to read and render values on the CASP wire.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theopfr/cachew-db/cachewerrors"
)

// DeclaredType is the single Value variant a CachewDB instance is
// configured with for its entire lifetime.
type DeclaredType int

const (
	Str DeclaredType = iota
	Int
	Float
	Bool
	JSON
)

func (t DeclaredType) String() string {
	switch t {
	case Str:
		return "STR"
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Bool:
		return "BOOL"
	case JSON:
		return "JSON"
	default:
		return "UNKNOWN"
	}
}

// ParseDeclaredType maps a configuration string (case-insensitive) to a
// DeclaredType. It is used once, at startup, by the external collaborator
// that builds Config; the core never re-parses it.
func ParseDeclaredType(s string) (DeclaredType, bool) {
	switch strings.ToUpper(s) {
	case "STR":
		return Str, true
	case "INT":
		return Int, true
	case "FLOAT":
		return Float, true
	case "BOOL":
		return Bool, true
	case "JSON":
		return JSON, true
	default:
		return 0, false
	}
}

// Value is a tagged variant. Only the field matching Type is meaningful;
// callers use the accessors below rather than reading fields directly.
type Value struct {
	Type DeclaredType
	str  string
	i32  int32
	f32  float32
	b    bool
}

func NewStr(s string) Value   { return Value{Type: Str, str: s} }
func NewJSON(s string) Value  { return Value{Type: JSON, str: s} }
func NewInt(i int32) Value    { return Value{Type: Int, i32: i} }
func NewFloat(f float32) Value { return Value{Type: Float, f32: f} }
func NewBool(b bool) Value    { return Value{Type: Bool, b: b} }

func (v Value) StringValue() string { return v.str }
func (v Value) IntValue() int32     { return v.i32 }
func (v Value) FloatValue() float32 { return v.f32 }
func (v Value) BoolValue() bool     { return v.b }

// Equal compares two values of the same DeclaredType for storage-level
// equality (overwrite detection, tests). Values of differing Type are
// never equal; this should not arise in practice since every stored
// value shares the instance's DeclaredType (spec.md §3 invariant).
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case Str, JSON:
		return v.str == other.str
	case Int:
		return v.i32 == other.i32
	case Float:
		return v.f32 == other.f32
	case Bool:
		return v.b == other.b
	default:
		return false
	}
}

// Render produces the wire literal for v, as used in CASP response
// bodies: strings/JSON re-wrapped in quotes with interior quotes
// escaped, floats always carrying a decimal point, ints as signed
// decimal, bools as true/false.
func (v Value) Render() string {
	switch v.Type {
	case Str, JSON:
		return quoteString(v.str)
	case Int:
		return strconv.FormatInt(int64(v.i32), 10)
	case Float:
		return formatFloat(v.f32)
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// formatFloat renders f the way spec.md §3 requires: a decimal point is
// always present, even for whole numbers (1 -> "1.0").
func formatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseLiteral parses a single value-literal token according to
// DeclaredType. quoted reports whether the tokenizer classified the
// token as a quoted string (its surrounding quotes are retained in text
// for STR/JSON, per spec.md §4.2/§4.3).
func ParseLiteral(declared DeclaredType, text string, quoted bool) (Value, error) {
	switch declared {
	case Str:
		s, err := unwrapQuoted(text, quoted)
		if err != nil {
			return Value{}, err
		}
		return NewStr(s), nil
	case JSON:
		s, err := unwrapQuoted(text, quoted)
		if err != nil {
			return Value{}, err
		}
		return NewJSON(s), nil
	case Int:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil || !isPlainInteger(text) {
			return Value{}, cachewerrors.WrongValueType(fmt.Sprintf("%q is not a valid INT literal", text))
		}
		return NewInt(int32(n)), nil
	case Float:
		if !strings.Contains(text, ".") {
			return Value{}, cachewerrors.WrongValueType(fmt.Sprintf("%q is missing a mandatory decimal point", text))
		}
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Value{}, cachewerrors.WrongValueType(fmt.Sprintf("%q is not a valid FLOAT literal", text))
		}
		return NewFloat(float32(f)), nil
	case Bool:
		switch text {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		default:
			return Value{}, cachewerrors.WrongValueType(fmt.Sprintf("%q is not 'true' or 'false'", text))
		}
	default:
		return Value{}, cachewerrors.WrongValueType("unknown declared type")
	}
}

// isPlainInteger rejects forms strconv accepts that spec.md does not,
// such as a leading '+' or internal underscores.
func isPlainInteger(text string) bool {
	if text == "" {
		return false
	}
	i := 0
	if text[0] == '-' {
		i = 1
	}
	if i >= len(text) {
		return false
	}
	for ; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}

func unwrapQuoted(text string, quoted bool) (string, error) {
	if !quoted {
		return "", cachewerrors.WrongValueType(fmt.Sprintf("%q is missing required quotes", text))
	}
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", cachewerrors.WrongValueType(fmt.Sprintf("%q is missing required quotes", text))
	}
	return text[1 : len(text)-1], nil
}
