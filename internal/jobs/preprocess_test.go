package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"header", "### Heading", "Heading"},
		{"link", "see [the docs](https://example.com) here", "see the docs here"},
		{"emphasis", "**bold** and _italic_ and `code`", "bold and italic and code"},
		{"control chars", "a\x00b\x1fc", "abc"},
		{"whitespace collapse", "a \t  b\tc", "a b c"},
		{"empty", "", ""},
		{"only markup", "***", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanText(tc.in))
		})
	}
}

func TestChunks(t *testing.T) {
	got := Chunks("# Title\n\nfirst line\n\nsecond **line**\n")
	assert.Equal(t, []string{"Title", "first line", "second line"}, got)
}

func TestChunksAllBlankLinesGetPlaceholder(t *testing.T) {
	got := Chunks("\n\n   \n\t\n")
	assert.Equal(t, []string{" "}, got)
}

func TestChunksControlOnlyGetsPlaceholder(t *testing.T) {
	got := Chunks("\x00\x01\x02")
	assert.Equal(t, []string{" "}, got)
}

func TestChunksEmptyInput(t *testing.T) {
	assert.Equal(t, []string{" "}, Chunks(""))
}
