package markup

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.abhg.dev/codeblock/internal/attr"
	"golang.org/x/net/html"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give string
		want *Block
	}{
		{
			desc: "minimal",
			give: "<pre><code>x</code></pre>",
			want: &Block{
				PreStartTag:  "<pre>",
				CodeStartTag: "<code>",
				Content:      "x",
				EndTags:      "</code></pre>",
			},
		},
		{
			desc: "attributes and surrounding whitespace",
			give: "\n  <pre class=\"wp-block-code\"><code lang=\"go\">a\nb</code></pre>\n\n",
			want: &Block{
				PreStartTag:  `<pre class="wp-block-code">`,
				CodeStartTag: `<code lang="go">`,
				Content:      "a\nb",
				EndTags:      "</code></pre>",
			},
		},
		{
			desc: "empty body",
			give: "<pre><code></code></pre>",
			want: &Block{
				PreStartTag:  "<pre>",
				CodeStartTag: "<code>",
				EndTags:      "</code></pre>",
			},
		},
		{
			desc: "inline markup in body",
			give: "<pre><code>a <strong>b</strong></code></pre>",
			want: &Block{
				PreStartTag:  "<pre>",
				CodeStartTag: "<code>",
				Content:      "a <strong>b</strong>",
				EndTags:      "</code></pre>",
			},
		},
		{desc: "not a code block", give: "<p>hello</p>"},
		{desc: "prefix text", give: "x<pre><code>a</code></pre>"},
		{desc: "suffix text", give: "<pre><code>a</code></pre>y"},
		{desc: "pre-like tag name", give: "<prefix><code>a</code></prefix>"},
		{desc: "missing code", give: "<pre>a</pre>"},
		{desc: "already rendered", give: `<pre><code class="hljs">a</code><small>x</small></pre>`},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			got, ok := Extract(tt.give)
			if tt.want == nil {
				assert.False(t, ok)
				assert.Nil(t, got)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc string
		give attr.Attributes
		want string
	}{
		{desc: "default", want: "hljs"},
		{
			desc: "language",
			give: attr.Attributes{Language: "go"},
			want: "hljs language-go",
		},
		{
			desc: "highlighted lines",
			give: attr.Attributes{HighlightedLines: "1"},
			want: "hljs shcb-code-table",
		},
		{
			desc: "everything",
			give: attr.Attributes{
				Language:         "php",
				HighlightedLines: "2",
				ShowLineNumbers:  true,
				WrapLines:        true,
			},
			want: "hljs language-php shcb-code-table shcb-line-numbers shcb-wrap-lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Classes(tt.give))
		})
	}
}

func TestInject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc  string
		pre   string
		code  string
		attrs attr.Attributes
		label *Label
		want  string
	}{
		{
			desc: "no class attribute",
			pre:  `<pre class="wp-block-code">`,
			code: "<code>",
			want: `<pre class="wp-block-code"><code class="hljs">BODY</code></pre>`,
		},
		{
			desc: "other attributes",
			pre:  "<pre>",
			code: `<code data-x="1">`,
			want: `<pre><code class="hljs" data-x="1">BODY</code></pre>`,
		},
		{
			desc:  "existing class",
			pre:   "<pre>",
			code:  `<code id="c" class="foo">`,
			attrs: attr.Attributes{Language: "go", ShowLineNumbers: true},
			want:  `<pre><code id="c" class="hljs language-go shcb-code-table shcb-line-numbers foo">BODY</code></pre>`,
		},
		{
			desc:  "single quoted class",
			pre:   "<pre>",
			code:  `<code class='foo'>`,
			attrs: attr.Attributes{WrapLines: true},
			want:  `<pre><code class='hljs shcb-wrap-lines foo'>BODY</code></pre>`,
		},
		{
			desc: "data-class is not class",
			pre:  "<pre>",
			code: `<code data-class="x">`,
			want: `<pre><code class="hljs" data-class="x">BODY</code></pre>`,
		},
		{
			desc:  "language label",
			pre:   `<pre class="wp-block-code">`,
			code:  "<code>",
			attrs: attr.Attributes{Language: "php"},
			label: &Label{ID: "shcb-language-1", Name: "PHP"},
			want: `<pre class="wp-block-code" aria-describedby="shcb-language-1" data-shcb-language-name="PHP" data-shcb-language-slug="php">` +
				`<code class="hljs language-php">BODY</code>` +
				`<small class="shcb-language" id="shcb-language-1">` +
				`<span class="shcb-language__label">Code language:</span> ` +
				`<span class="shcb-language__name">PHP</span> ` +
				`<span class="shcb-language__paren">(</span>` +
				`<span class="shcb-language__slug">php</span>` +
				`<span class="shcb-language__paren">)</span>` +
				`</small></pre>`,
		},
		{
			desc:  "label without language",
			pre:   "<pre>",
			code:  "<code>",
			label: &Label{ID: "shcb-language-2", Name: "Nothing"},
			want:  `<pre><code class="hljs">BODY</code></pre>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			b := &Block{PreStartTag: tt.pre, CodeStartTag: tt.code, EndTags: EndTags}
			assert.Equal(t, tt.want, Inject(b, tt.attrs, "BODY", tt.label))
		})
	}
}

func TestInject_escapesLabel(t *testing.T) {
	t.Parallel()

	b := &Block{PreStartTag: "<pre>", CodeStartTag: "<code>", EndTags: EndTags}
	got := Inject(b, attr.Attributes{Language: "c"}, "x", &Label{
		ID:   "id",
		Name: `C "classic" <89>`,
	})

	doc, err := html.Parse(strings.NewReader(got))
	require.NoError(t, err)

	pre := cascadia.MustCompile("pre").MatchFirst(doc)
	require.NotNil(t, pre)
	assert.Equal(t, `C "classic" <89>`, attrValue(pre, "data-shcb-language-name"))

	name := cascadia.MustCompile("small.shcb-language .shcb-language__name").MatchFirst(doc)
	require.NotNil(t, name)
	require.NotNil(t, name.FirstChild)
	assert.Equal(t, `C "classic" <89>`, name.FirstChild.Data)
}

// Without any highlighting, a round trip only touches the tags.
func TestInjectExtract_preservesContent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"<pre><code>plain</code></pre>",
		"<pre class=\"wp-block-code\"><code>if (a &lt; b) {\n\treturn;\n}</code></pre>",
		"<pre><code class=\"x\">  leading\n\ntrailing  \n</code></pre>",
		"<pre><code>a <em>b</em> &amp; c</code></pre>",
		"<pre><code></code></pre>",
	}

	for _, give := range inputs {
		b, ok := Extract(give)
		require.True(t, ok, "extract %q", give)

		got := Inject(b, attr.Attributes{}, b.Content, nil)
		gotBlock, ok := Extract(got)
		require.True(t, ok, "re-extract %q", got)
		assert.Equal(t, b.Content, gotBlock.Content)
		assert.Equal(t, b.PreStartTag, gotBlock.PreStartTag)
	}
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
