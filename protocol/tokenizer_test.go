package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		expectErr bool
		expected  []Token
	}{
		{
			name:    "simple command",
			payload: "PING",
			expected: []Token{
				{Kind: Word, Text: "PING"},
			},
		},
		{
			name:    "set with bare key and value",
			payload: "SET mykey 7",
			expected: []Token{
				{Kind: Word, Text: "SET"},
				{Kind: Word, Text: "mykey"},
				{Kind: Word, Text: "7"},
			},
		},
		{
			name:    "set with quoted key and value",
			payload: `SET "my key" "hello"`,
			expected: []Token{
				{Kind: Word, Text: "SET"},
				{Kind: Quoted, Text: `"my key"`},
				{Kind: Quoted, Text: `"hello"`},
			},
		},
		{
			name:    "escaped quote inside quoted token",
			payload: `SET k "say \"hi\""`,
			expected: []Token{
				{Kind: Word, Text: "SET"},
				{Kind: Word, Text: "k"},
				{Kind: Quoted, Text: `"say "hi""`},
			},
		},
		{
			name:    "set many pairs separated by commas",
			payload: "SET MANY a 1, b 2",
			expected: []Token{
				{Kind: Word, Text: "SET"},
				{Kind: Word, Text: "MANY"},
				{Kind: Word, Text: "a"},
				{Kind: Word, Text: "1"},
				{Kind: Comma, Text: ","},
				{Kind: Word, Text: "b"},
				{Kind: Word, Text: "2"},
			},
		},
		{
			name:      "unterminated quote",
			payload:   `SET k "never closed`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.payload)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
