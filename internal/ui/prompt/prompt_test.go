package prompt

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrompter(input string) (*StandardPrompter, *bytes.Buffer, *bufio.Reader) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(input))
	return NewStandardPrompter(in, &out), &out, in
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact match", "logs/*\n", true},
		{"surrounding whitespace", "  logs/*  \n", true},
		{"mismatch", "logs\n", false},
		{"empty line", "\n", false},
		{"eof", "", false},
		{"no trailing newline", "logs/*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out, _ := newPrompter(tt.input)

			ok, err := p.Confirm("Delete everything under logs/?", "logs/*")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Delete everything under logs/?")
			assert.Contains(t, out.String(), "'logs/*'")
		})
	}
}

func TestConfirm_LeavesFollowingLinesForTheShell(t *testing.T) {
	p, _, in := newPrompter("yes\nls\n")

	_, err := p.Confirm("sure?", "yes")
	require.NoError(t, err)

	next, err := in.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ls\n", next)
}

func TestConfirm_EmptyExpectedValue(t *testing.T) {
	p, _, _ := newPrompter("x\n")
	_, err := p.Confirm("sure?", "")
	assert.Error(t, err)
}
