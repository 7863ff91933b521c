package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want string
	}{
		{desc: "empty"},
		{desc: "plain", give: "fmt.Println()", want: "fmt.Println()"},
		{
			desc: "line breaks",
			give: "a<br>b<br/>c<BR />d",
			want: "a\nb\nc\nd",
		},
		{
			desc: "entities",
			give: "if a &lt; b &amp;&amp; c &gt; d { &quot;x&quot; &#39;y&#39; }",
			want: `if a < b && c > d { "x" 'y' }`,
		},
		{
			desc: "double escaped stays escaped once",
			give: "&amp;lt;",
			want: "&lt;",
		},
		{
			// Inline markup is not stripped.
			desc: "inline markup",
			give: "a <strong>b</strong>",
			want: "a <strong>b</strong>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Decode(tt.give))
		})
	}
}

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want string
	}{
		{desc: "empty"},
		{
			desc: "square brackets",
			give: "a[0] = [gallery]",
			want: "a&#91;0] = &#91;gallery]",
		},
		{
			desc: "isolated url",
			give: "https://example.com/foo",
			want: "https:&#47;&#47;example.com/foo",
		},
		{
			desc: "isolated url among lines",
			give: "x\n  http://a.b\ny",
			want: "x\n  http:&#47;&#47;a.b\ny",
		},
		{
			desc: "url inside text",
			give: "see https://example.com",
			want: "see https://example.com",
		},
		{
			desc: "url inside markup",
			give: `<span class="s">https://example.com</span>`,
			want: `<span class="s">https://example.com</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Escape(tt.give))
		})
	}
}
