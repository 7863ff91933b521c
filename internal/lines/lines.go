// Package lines turns highlighted code into individually addressable lines
// and parses the user syntax that selects lines to emphasize.
package lines

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"braces.dev/errtrace"
	"go.abhg.dev/codeblock/internal/attr"
)

// MaxLine is the largest 1-based line number accepted by [ParseRanges].
// Larger numbers are ignored like any other malformed input.
const MaxLine = 1 << 16

// Set is a set of zero-based line indices.
type Set map[int]struct{}

// Has reports whether the zero-based line i is in the set.
func (s Set) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// Lines returns the zero-based indices in the set in ascending order.
func (s Set) Lines() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// ParseRanges parses a comma-separated list of 1-based line numbers
// and inclusive ranges, e.g. "1,3-5", into a set of zero-based indices.
//
// Whitespace is ignored anywhere in the input.
// Malformed entries are skipped.
func ParseRanges(s string) Set {
	set := make(Set)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if len(s) == 0 {
		return set
	}

	for _, chunk := range strings.Split(s, ",") {
		lo, hi, ok := parseChunk(chunk)
		if !ok {
			continue
		}
		for i := lo; i <= hi; i++ {
			set[i-1] = struct{}{}
		}
	}
	return set
}

// parseChunk parses "N" or "A-B".
func parseChunk(chunk string) (lo, hi int, ok bool) {
	from, to, isRange := strings.Cut(chunk, "-")
	if !isRange {
		n, ok := parseLine(chunk)
		return n, n, ok
	}

	lo, ok = parseLine(from)
	if !ok {
		return 0, 0, false
	}
	hi, ok = parseLine(to)
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

func parseLine(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > MaxLine {
		return 0, false
	}
	return n, true
}

// Splitter splits highlighted HTML into balanced lines.
type Splitter func(string) ([]string, error)

// Wrap wraps each line in an element that can be styled as a table row.
// Lines in the selected set are wrapped in <mark>, others in <span>.
//
// The inner <span> and trailing newline keep
// 'white-space: pre' working inside 'display: table-row'.
func Wrap(lines []string, selected Set) string {
	var sb strings.Builder
	for i, line := range lines {
		tag := "span"
		if selected.Has(i) {
			tag = "mark"
		}
		sb.WriteString("<")
		sb.WriteString(tag)
		sb.WriteString(` class="shcb-loc"><span>`)
		sb.WriteString(line)
		sb.WriteString("\n</span></")
		sb.WriteString(tag)
		sb.WriteString(">")
	}
	return sb.String()
}

// Process splits highlighted HTML into lines
// and wraps each one according to attrs.
//
// Process returns the HTML unchanged if attrs don't call for
// line numbers or highlighted lines.
func Process(highlighted string, attrs attr.Attributes, split Splitter) (string, error) {
	if !attrs.NeedsLines() {
		return highlighted, nil
	}

	lines, err := split(highlighted)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return Wrap(lines, ParseRanges(attrs.HighlightedLines)), nil
}
