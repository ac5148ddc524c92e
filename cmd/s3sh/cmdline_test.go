// File: cmd/s3sh/cmdline_test.go
package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"blank", "   ", nil},
		{"plain words", "  get  a.txt\tb.txt ", []string{"get", "a.txt", "b.txt"}},
		{"double quoted space", `put "my file.txt" docs/.`, []string{"put", "my file.txt", "docs/."}},
		{"single quoted space", `find 'a b'`, []string{"find", "a b"}},
		{"quotes join a word", `get logs/"a b".log`, []string{"get", "logs/a b.log"}},
		{"empty quoted word", `add prod acme "" s`, []string{"add", "prod", "acme", "", "s"}},
		{"single quotes are verbatim", `find '\d+ "x"'`, []string{"find", `\d+ "x"`}},
		{"escapes in double quotes", `find "say \"hi\" \\ \d"`, []string{"find", `say "hi" \ \d`}},
		{"bare backslash is literal", `find \.log$`, []string{"find", `\.log$`}},
		{"windows path", `put C:\tmp\a.txt`, []string{"put", `C:\tmp\a.txt`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitCommandLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitCommandLine_UnterminatedQuote(t *testing.T) {
	for _, line := range []string{`find "abc`, `get 'a b`, `find "abc\"`} {
		_, err := splitCommandLine(line)
		assert.ErrorIs(t, err, errUnterminatedQuote, line)
	}
}
