package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"string", NewStr("hello"), `"hello"`},
		{"string with quote", NewStr(`say "hi"`), `"say \"hi\""`},
		{"json passthrough", NewJSON(`{"a":1}`), `"{\"a\":1}"`},
		{"int positive", NewInt(7), "7"},
		{"int negative", NewInt(-7), "-7"},
		{"float whole", NewFloat(1), "1.0"},
		{"float fraction", NewFloat(1.5), "1.5"},
		{"bool true", NewBool(true), "true"},
		{"bool false", NewBool(false), "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Render())
		})
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		name      string
		declared  DeclaredType
		text      string
		quoted    bool
		expectErr bool
		expected  Value
	}{
		{"str ok", Str, `"v1"`, true, false, NewStr("v1")},
		{"str missing quotes", Str, `v1`, false, true, Value{}},
		{"int ok", Int, "-7", false, false, NewInt(-7)},
		{"int overflow", Int, "99999999999999", false, true, Value{}},
		{"float missing dot", Float, "1", false, true, Value{}},
		{"float ok", Float, "1.0", false, false, NewFloat(1.0)},
		{"bool true", Bool, "true", false, false, NewBool(true)},
		{"bool wrong case", Bool, "True", false, true, Value{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLiteral(tt.declared, tt.text, tt.quoted)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.expected.Equal(got))
		})
	}
}

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		quoted    bool
		expectErr bool
		expected  string
	}{
		{"bare ok", "mykey", false, false, "mykey"},
		{"bare comma", "my,key", false, true, ""},
		{"bare slash", "my/key", false, true, ""},
		{"quoted with special chars", `"my,key/with"quote"`, true, false, `my,key/with"quote`},
		{"empty quoted", `""`, true, true, ""},
		{"empty bare", "", false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractKey(tt.text, tt.quoted)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
