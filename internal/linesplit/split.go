// Package linesplit splits highlighted HTML into lines
// without breaking the markup.
//
// Highlighted code often has tags that span multiple lines,
// for example a multi-line comment wrapped in a single <span>.
// Splitting such HTML on newlines naively would produce fragments
// with unbalanced tags.
// Split closes any open tags at the end of each line
// and re-opens them at the start of the next one.
package linesplit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"
	"golang.org/x/net/html"
)

// MismatchError indicates that the HTML closed a tag
// that was not the innermost open tag.
type MismatchError struct {
	Want string // innermost open tag, or "" if none
	Got  string // tag that was closed
}

func (e *MismatchError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("unexpected end tag </%s>", e.Got)
	}
	return fmt.Sprintf("unexpected end tag </%s>: expected </%s>", e.Got, e.Want)
}

type openTag struct {
	name string
	raw  string // start tag as it appeared in the source
}

// Split splits an HTML fragment into lines.
//
// Every returned line is balanced:
// tags open at a line break are closed at the end of that line
// and re-opened, with their original attributes, on the next.
// A tag is only re-opened if the next line has something inside it,
// so a tag that ends right after a line break leaves nothing behind.
// Newlines are not included in the returned lines.
//
// An empty fragment has no lines.
// A trailing newline does not start a new, empty line.
func Split(fragment string) ([]string, error) {
	if len(fragment) == 0 {
		return nil, nil
	}

	var (
		lines []string
		open  []openTag
		cur   strings.Builder

		// Number of tags in open, from the outside in,
		// that have been written to cur.
		written int

		// Whether cur has anything besides tags
		// since the last line break.
		hasText bool
	)

	// reopen writes open tags that haven't been written on this line yet.
	reopen := func() {
		for _, t := range open[written:] {
			cur.WriteString(t.raw)
		}
		written = len(open)
	}

	breakLine := func() {
		for i := written - 1; i >= 0; i-- {
			cur.WriteString("</")
			cur.WriteString(open[i].name)
			cur.WriteString(">")
		}
		lines = append(lines, cur.String())
		cur.Reset()
		written = 0
		hasText = false
	}

	z := html.NewTokenizerFragment(strings.NewReader(fragment), "code")
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, errtrace.Wrap(err)
			}
			break
		}

		// Raw is only valid until the next call to Next.
		raw := string(z.Raw())
		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			reopen()
			cur.WriteString(raw)
			if isVoid(name) {
				hasText = true
			} else {
				open = append(open, openTag{name: string(name), raw: raw})
				written = len(open)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if isVoid(name) {
				reopen()
				cur.WriteString(raw)
				hasText = true
				continue
			}
			n := len(open)
			if n == 0 {
				return nil, errtrace.Wrap(&MismatchError{Got: string(name)})
			}
			if top := open[n-1].name; top != string(name) {
				return nil, errtrace.Wrap(&MismatchError{Want: top, Got: string(name)})
			}
			if written == n {
				cur.WriteString(raw)
				written--
			}
			open = open[:n-1]

		case html.TextToken:
			for {
				idx := strings.IndexByte(raw, '\n')
				if idx < 0 {
					break
				}
				if idx > 0 {
					reopen()
					cur.WriteString(raw[:idx])
				}
				raw = raw[idx+1:]
				breakLine()
			}
			if len(raw) > 0 {
				reopen()
				cur.WriteString(raw)
				hasText = true
			}

		default:
			// Comments, doctypes, and self-closing tags
			// don't affect nesting.
			reopen()
			cur.WriteString(raw)
			hasText = true
		}
	}

	if len(open) > 0 {
		return nil, errtrace.Errorf("unclosed tag <%s>", open[len(open)-1].name)
	}

	// A trailing newline leaves behind an empty last line.
	if hasText || len(lines) == 0 {
		lines = append(lines, cur.String())
	}
	return lines, nil
}

var _voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

func isVoid(name []byte) bool {
	_, ok := _voidElements[string(bytes.ToLower(name))]
	return ok
}
