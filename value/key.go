package value

import (
	"fmt"
	"strings"

	"github.com/theopfr/cachew-db/cachewerrors"
)

// Key is a non-empty character sequence used to address an Entry in the
// keyspace. Keys compare and order lexicographically over their raw
// bytes (spec.md §3); quoting is purely a wire-syntax concern resolved
// before a Key ever exists as a Go string.
type Key = string

// disallowedBare are the characters spec.md §3 forbids inside an
// unquoted key token: space, comma, slash. The tokenizer already
// splits on whitespace, so in practice only ',' and '/' reach here.
const disallowedBare = ",/"

// ExtractKey turns a tokenizer token into a Key, enforcing spec.md §3's
// quoting rules: unquoted tokens may not contain ',' or '/' and an
// unquoted token containing '"' is never produced by the tokenizer in
// the first place (a bare '"' always opens a quoted token). Quoted
// tokens have their surrounding quotes stripped; their interior is
// already unescaped by the tokenizer.
func ExtractKey(text string, quoted bool) (Key, error) {
	if quoted {
		if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
			return "", cachewerrors.UnexpectedCharacter(fmt.Sprintf("malformed quoted key %q", text))
		}
		key := text[1 : len(text)-1]
		if key == "" {
			return "", cachewerrors.UnexpectedCharacter("empty key")
		}
		return key, nil
	}

	if text == "" {
		return "", cachewerrors.UnexpectedCharacter("empty key")
	}
	if strings.ContainsAny(text, disallowedBare) {
		return "", cachewerrors.UnexpectedCharacter(fmt.Sprintf("unquoted key %q contains a reserved character (',' or '/')", text))
	}
	return text, nil
}
