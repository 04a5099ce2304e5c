package olx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "no code",
			text: "a < b & c | d",
			want: "a < b & c | d",
		},
		{
			name: "inline code",
			text: "run `a | b && c > d` now",
			want: "run `a &pipe; b &amp;&amp; c &gt; d` now",
		},
		{
			name: "two inline spans on a line",
			text: "`<a>` and `<b>` but <c>",
			want: "`&lt;a&gt;` and `&lt;b&gt;` but <c>",
		},
		{
			name: "unpaired backtick",
			text: "`a<b` and ` c<d",
			want: "`a&lt;b` and ` c<d",
		},
		{
			name: "inline code does not span lines",
			text: "`a\nb<c`",
			want: "`a\nb<c`",
		},
		{
			name: "fenced code spans lines",
			text: "```\nif a < b {\n}\n```\n`x>y`",
			want: "```\nif a &lt; b {\n}\n```\n`x&gt;y`",
		},
		{
			name: "unclosed fence",
			text: "```\na < b",
			want: "```\na < b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeCode(tt.text))
		})
	}
}

func TestUnescapeCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "inline code",
			text: "run `a &pipe; b &amp;&amp; c &gt; d &lt; e` now",
			want: "run `a | b && c > d < e` now",
		},
		{
			name: "entities outside code are kept",
			text: "a &lt; b `c &lt; d`",
			want: "a &lt; b `c < d`",
		},
		{
			name: "fenced code",
			text: "```\nif a &lt; b &amp;&amp; c {\n}\n```",
			want: "```\nif a < b && c {\n}\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnescapeCode(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
