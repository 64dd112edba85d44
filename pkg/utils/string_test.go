package utils_test

import (
	"testing"

	"github.com/robalyx/promptaudit/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestCollapseSpaces(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single line",
			input: "hello    world",
			want:  "hello world",
		},
		{
			name: "multiple lines",
			input: `hello    world
				this  is  a  test
				preserve  newlines`,
			want: "hello world\nthis is a test\npreserve newlines",
		},
		{
			name: "empty lines",
			input: `
				hello    world

				this  is  a  test
				`,
			want: "hello world\n\nthis is a test",
		},
		{
			name:  "mixed line endings",
			input: "hello    world\r\nthis  is  a  test\rpreserve  newlines",
			want:  "hello world\nthis is a test\npreserve newlines",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \n\t   \n   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := utils.CollapseSpaces(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncateBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "under limit", input: "hello", limit: 10, want: "hello"},
		{name: "exact limit", input: "hello", limit: 5, want: "hello"},
		{name: "ascii cut", input: "hello world", limit: 5, want: "hello"},
		{name: "no limit", input: "hello", limit: 0, want: "hello"},
		{name: "multibyte boundary", input: "héllo", limit: 2, want: "h"},
		{name: "multibyte kept whole", input: "héllo", limit: 3, want: "hé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, utils.TruncateBytes(tt.input, tt.limit))
		})
	}
}
