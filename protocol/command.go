package protocol

import (
	"fmt"

	"github.com/theopfr/cachew-db/cachewerrors"
	"github.com/theopfr/cachew-db/value"
)

// Kind identifies which CASP command a Command carries.
type Kind int

const (
	Auth Kind = iota
	Set
	SetMany
	Get
	GetMany
	GetRange
	Del
	DelMany
	DelRange
	Clear
	Len
	Exists
	Ping
	Shutdown
)

// WireName is the command name as it appears on the wire, used both
// while parsing two-word commands and while formatting responses.
func (k Kind) WireName() string {
	switch k {
	case Auth:
		return "AUTH"
	case Set:
		return "SET"
	case SetMany:
		return "SET MANY"
	case Get:
		return "GET"
	case GetMany:
		return "GET MANY"
	case GetRange:
		return "GET RANGE"
	case Del:
		return "DEL"
	case DelMany:
		return "DEL MANY"
	case DelRange:
		return "DEL RANGE"
	case Clear:
		return "CLEAR"
	case Len:
		return "LEN"
	case Exists:
		return "EXISTS"
	case Ping:
		return "PING"
	case Shutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) String() string { return k.WireName() }

// Pair is one key/value entry inside a SET MANY command.
type Pair struct {
	Key   value.Key
	Value value.Value
}

// Command is the fully-parsed, typed representation of one CASP
// request, ready for the session layer to authorize and the keyspace
// engine to execute (spec.md §4.3).
type Command struct {
	Kind Kind

	Password string // AUTH

	Key   value.Key   // SET, GET, DEL, EXISTS
	Value value.Value // SET

	Pairs []Pair      // SET MANY
	Keys  []value.Key // GET MANY, DEL MANY

	Lower, Upper value.Key // GET RANGE, DEL RANGE
}

// ParsePayload tokenizes and parses a CASP payload into a Command,
// interpreting any value literals against declared.
func ParsePayload(payload string, declared value.DeclaredType) (Command, error) {
	tokens, err := Tokenize(payload)
	if err != nil {
		return Command{}, err
	}
	return Parse(tokens, declared)
}

// Parse builds a Command out of an already-tokenized payload.
func Parse(tokens []Token, declared value.DeclaredType) (Command, error) {
	if len(tokens) == 0 {
		return Command{}, cachewerrors.UnknownQueryOperation("")
	}
	if tokens[0].Kind != Word {
		return Command{}, cachewerrors.UnknownQueryOperation(tokens[0].Text)
	}

	op := tokens[0].Text
	rest := tokens[1:]

	switch op {
	case "AUTH":
		return parseAuth(rest)
	case "PING":
		return requireNoArgs(Ping, rest)
	case "SHUTDOWN":
		return requireNoArgs(Shutdown, rest)
	case "CLEAR":
		return requireNoArgs(Clear, rest)
	case "LEN":
		return requireNoArgs(Len, rest)
	case "EXISTS":
		return parseSingleKey(Exists, rest)
	case "SET":
		return parseSetFamily(rest, declared)
	case "GET":
		return parseGetFamily(rest)
	case "DEL":
		return parseDelFamily(rest)
	default:
		return Command{}, cachewerrors.UnknownQueryOperation(op)
	}
}

func isSecondWord(tokens []Token, word string) bool {
	return len(tokens) > 0 && tokens[0].Kind == Word && tokens[0].Text == word
}

func parseSetFamily(rest []Token, declared value.DeclaredType) (Command, error) {
	if isSecondWord(rest, "MANY") {
		return parseSetMany(rest[1:], declared)
	}
	for _, t := range rest {
		if t.Kind == Comma {
			return Command{}, cachewerrors.UnexpectedCharacter("unquoted ',' in SET; quote keys and values containing ','")
		}
	}
	if len(rest) != 2 {
		return Command{}, cachewerrors.InvalidKeyValuePair("SET requires exactly one key and one value")
	}
	key, err := value.ExtractKey(rest[0].Text, rest[0].Kind == Quoted)
	if err != nil {
		return Command{}, err
	}
	v, err := value.ParseLiteral(declared, rest[1].Text, rest[1].Kind == Quoted)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: Set, Key: key, Value: v}, nil
}

func parseSetMany(rest []Token, declared value.DeclaredType) (Command, error) {
	groups := splitByComma(rest)
	if len(groups) == 1 && len(groups[0]) == 0 {
		return Command{}, cachewerrors.InvalidKeyValuePair("SET MANY requires at least one key-value pair")
	}

	pairs := make([]Pair, 0, len(groups))
	for _, g := range groups {
		if len(g) != 2 {
			return Command{}, cachewerrors.InvalidKeyValuePair("each SET MANY pair must have exactly one key and one value")
		}
		key, err := value.ExtractKey(g[0].Text, g[0].Kind == Quoted)
		if err != nil {
			return Command{}, err
		}
		v, err := value.ParseLiteral(declared, g[1].Text, g[1].Kind == Quoted)
		if err != nil {
			return Command{}, err
		}
		pairs = append(pairs, Pair{Key: key, Value: v})
	}
	return Command{Kind: SetMany, Pairs: pairs}, nil
}

func splitByComma(tokens []Token) [][]Token {
	var groups [][]Token
	var cur []Token
	for _, t := range tokens {
		if t.Kind == Comma {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)
	return groups
}

func parseGetFamily(rest []Token) (Command, error) {
	switch {
	case isSecondWord(rest, "MANY"):
		keys, err := parseKeyList(GetMany, rest[1:])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: GetMany, Keys: keys}, nil
	case isSecondWord(rest, "RANGE"):
		return parseRange(GetRange, rest[1:])
	default:
		return parseSingleKey(Get, rest)
	}
}

func parseDelFamily(rest []Token) (Command, error) {
	switch {
	case isSecondWord(rest, "MANY"):
		keys, err := parseKeyList(DelMany, rest[1:])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: DelMany, Keys: keys}, nil
	case isSecondWord(rest, "RANGE"):
		return parseRange(DelRange, rest[1:])
	default:
		return parseSingleKey(Del, rest)
	}
}

func parseSingleKey(kind Kind, rest []Token) (Command, error) {
	if len(rest) != 1 {
		return Command{}, cachewerrors.InvalidKeyValuePair(fmt.Sprintf("%s requires exactly one key", kind))
	}
	key, err := value.ExtractKey(rest[0].Text, rest[0].Kind == Quoted)
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: kind, Key: key}, nil
}

func parseKeyList(kind Kind, rest []Token) ([]value.Key, error) {
	if len(rest) == 0 {
		return nil, cachewerrors.InvalidKeyValuePair(fmt.Sprintf("%s requires at least one key", kind))
	}
	keys := make([]value.Key, 0, len(rest))
	for _, t := range rest {
		k, err := value.ExtractKey(t.Text, t.Kind == Quoted)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func parseRange(kind Kind, rest []Token) (Command, error) {
	if len(rest) != 2 {
		return Command{}, cachewerrors.InvalidRange(fmt.Sprintf("%s requires exactly a lower and upper bound", kind))
	}
	lower, err := value.ExtractKey(rest[0].Text, rest[0].Kind == Quoted)
	if err != nil {
		return Command{}, err
	}
	upper, err := value.ExtractKey(rest[1].Text, rest[1].Kind == Quoted)
	if err != nil {
		return Command{}, err
	}
	if lower > upper {
		return Command{}, cachewerrors.InvalidRangeOrder(lower, upper)
	}
	return Command{Kind: kind, Lower: lower, Upper: upper}, nil
}

func parseAuth(rest []Token) (Command, error) {
	if len(rest) != 1 || rest[0].Kind != Word {
		return Command{}, cachewerrors.WrongAuthentication("AUTH requires exactly one password token")
	}
	return Command{Kind: Auth, Password: rest[0].Text}, nil
}

func requireNoArgs(kind Kind, rest []Token) (Command, error) {
	if len(rest) != 0 {
		return Command{}, cachewerrors.UnknownQueryOperation(fmt.Sprintf("%s takes no arguments", kind))
	}
	return Command{Kind: kind}, nil
}
