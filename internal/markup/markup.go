// Package markup takes apart and reassembles the
// <pre><code>...</code></pre> wrapper around a code block.
//
// This is deliberately not an HTML parser.
// Content must be a single, well-formed pre > code wrapper
// with no block-level tags crossing the code boundary.
// Anything else is reported as not matching
// and should be passed through untouched.
package markup

import (
	"fmt"
	"regexp"
	"strings"

	"go.abhg.dev/codeblock/internal/attr"
	"golang.org/x/net/html"
)

// EndTags closes every block produced by [Extract].
const EndTags = "</code></pre>"

var _blockRe = regexp.MustCompile(
	`(?s)^\s*(<pre\b[^>]*?>)(<code\b[^>]*?>)(.*)</code></pre>\s*$`,
)

// Block is a code block decomposed into its wrapper tags and contents.
type Block struct {
	PreStartTag  string // <pre ...>
	CodeStartTag string // <code ...>
	Content      string // everything between <code> and </code>
	EndTags      string // </code></pre>
}

// Extract splits content into its wrapper tags and inner content.
// It reports false if content is not shaped like a code block.
// Leading and trailing whitespace around the block is discarded.
func Extract(content string) (*Block, bool) {
	m := _blockRe.FindStringSubmatch(content)
	if m == nil {
		return nil, false
	}
	return &Block{
		PreStartTag:  m[1],
		CodeStartTag: m[2],
		Content:      m[3],
		EndTags:      EndTags,
	}, true
}

// Label is the visually hidden element announcing a block's language.
type Label struct {
	ID   string // element ID referenced by aria-describedby
	Name string // human readable language name
}

// _classAttrRe matches a code start tag up to and including
// the opening quote of its class attribute.
var _classAttrRe = regexp.MustCompile(`<code[^>]*\sclass=["']`)

// Classes returns the classes added to the <code> element
// for the given attributes.
func Classes(a attr.Attributes) string {
	var sb strings.Builder
	sb.WriteString("hljs")
	if len(a.Language) > 0 {
		sb.WriteString(" language-")
		sb.WriteString(a.Language)
	}
	if a.NeedsLines() {
		sb.WriteString(" shcb-code-table")
	}
	if a.ShowLineNumbers {
		sb.WriteString(" shcb-line-numbers")
	}
	if a.WrapLines {
		sb.WriteString(" shcb-wrap-lines")
	}
	return sb.String()
}

// Inject reassembles b around body,
// adding presentation classes to the <code> tag.
//
// If label is non-nil and a language is known,
// a language label is appended after the code
// and referenced from the <pre> tag.
//
// body is inserted as-is.
func Inject(b *Block, a attr.Attributes, body string, label *Label) string {
	codeTag := addClasses(b.CodeStartTag, Classes(a))
	preTag := b.PreStartTag

	var sb strings.Builder
	if label != nil && len(a.Language) > 0 {
		preTag = addAttributes(preTag, fmt.Sprintf(
			` aria-describedby="%s" data-shcb-language-name="%s" data-shcb-language-slug="%s"`,
			html.EscapeString(label.ID),
			html.EscapeString(label.Name),
			html.EscapeString(a.Language),
		))
	}

	sb.WriteString(preTag)
	sb.WriteString(codeTag)
	sb.WriteString(body)
	sb.WriteString("</code>")
	if label != nil && len(a.Language) > 0 {
		writeLabel(&sb, label, a.Language)
	}
	sb.WriteString("</pre>")
	return sb.String()
}

// addClasses prepends classes into the class attribute of tag,
// synthesizing the attribute if there isn't one.
func addClasses(tag, classes string) string {
	classes = html.EscapeString(classes)
	if loc := _classAttrRe.FindStringIndex(tag); loc != nil {
		return tag[:loc[1]] + classes + " " + tag[loc[1]:]
	}

	idx := strings.Index(tag, "<code")
	if idx < 0 {
		return tag
	}
	idx += len("<code")
	return tag[:idx] + ` class="` + classes + `"` + tag[idx:]
}

// addAttributes inserts attrs before the closing '>' of tag.
func addAttributes(tag, attrs string) string {
	idx := strings.LastIndexByte(tag, '>')
	if idx < 0 {
		return tag
	}
	if idx > 0 && tag[idx-1] == '/' {
		idx--
	}
	return tag[:idx] + attrs + tag[idx:]
}

func writeLabel(sb *strings.Builder, label *Label, slug string) {
	fmt.Fprintf(sb, `<small class="shcb-language" id="%s">`, html.EscapeString(label.ID))
	sb.WriteString(`<span class="shcb-language__label">Code language:</span> `)
	fmt.Fprintf(sb, `<span class="shcb-language__name">%s</span> `, html.EscapeString(label.Name))
	sb.WriteString(`<span class="shcb-language__paren">(</span>`)
	fmt.Fprintf(sb, `<span class="shcb-language__slug">%s</span>`, html.EscapeString(slug))
	sb.WriteString(`<span class="shcb-language__paren">)</span>`)
	sb.WriteString(`</small>`)
}
