package highlight

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// CodeClass is the class on the element that holds highlighted code.
// Stylesheets written by [Highlighter.WriteCSS] are scoped to it.
const CodeClass = "hljs"

// Result is the output of highlighting a piece of code.
type Result struct {
	// HTML is the highlighted code.
	HTML string

	// Language is the language the code was highlighted as.
	// This is empty if the language could not be detected.
	Language string
}

// UnknownLanguageError is returned when asked to highlight code
// in a language that the highlighter doesn't support.
type UnknownLanguageError struct {
	Language string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q", e.Language)
}

// Highlighter turns source code into HTML.
//
// The zero value is ready to use.
type Highlighter struct {
	// Style used for the stylesheet.
	// Defaults to Chroma's fallback style.
	//
	// The highlighted HTML does not depend on the style.
	Style *chroma.Style

	once      sync.Once
	formatter *chromahtml.Formatter
}

func (h *Highlighter) init() {
	h.once.Do(func() {
		h.formatter = chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithClasses(true),
			chromahtml.WithAllClasses(true),
		)
	})
}

func (h *Highlighter) style() *chroma.Style {
	if h.Style != nil {
		return h.Style
	}
	return styles.Fallback
}

// WriteCSS writes the style classes for this highlighter to writer.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	h.init()

	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style()); err != nil {
		return errtrace.Wrap(err)
	}

	// Chroma scopes its rules to its own wrapper class,
	// but highlighted code sits inside <code class="hljs">.
	css := strings.ReplaceAll(buf.String(),
		"."+chroma.StandardTypes[chroma.PreWrapper], "."+CodeClass)
	_, err := io.WriteString(w, css)
	return errtrace.Wrap(err)
}

// Highlight highlights code in the given language.
//
// language must be a name or alias known to Chroma
// after being passed through [CanonicalLanguage].
func (h *Highlighter) Highlight(language, code string) (*Result, error) {
	h.init()

	lexer := Lexer(language)
	if lexer == nil {
		return nil, errtrace.Wrap(&UnknownLanguageError{Language: language})
	}

	html, err := h.format(lexer, code)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Result{HTML: html, Language: language}, nil
}

// HighlightAuto highlights code in the language it most likely is.
//
// If candidates is non-empty, detection is limited to those languages.
// Otherwise, all languages known to Chroma are considered.
// If no language matches, the code is escaped but not highlighted.
func (h *Highlighter) HighlightAuto(code string, candidates []string) (*Result, error) {
	h.init()

	var lexer chroma.Lexer
	if len(candidates) > 0 {
		lexer = detectAmong(code, candidates)
	} else {
		lexer = lexers.Analyse(code)
	}

	var lang string
	if lexer == nil {
		lexer = lexers.Fallback
	} else {
		lang = Slug(lexer)
	}

	html, err := h.format(lexer, code)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return &Result{HTML: html, Language: lang}, nil
}

func (h *Highlighter) format(lexer chroma.Lexer, code string) (string, error) {
	tokens, err := chroma.Tokenise(chroma.Coalesce(lexer), nil, code)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	// Most lexers insist on a final newline.
	// Don't add one if the code didn't have it.
	if !strings.HasSuffix(code, "\n") {
		tokens = trimFinalNewline(tokens)
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style(), chroma.Literator(tokens...)); err != nil {
		return "", errtrace.Wrap(err)
	}
	return buf.String(), nil
}

func trimFinalNewline(tokens []chroma.Token) []chroma.Token {
	n := len(tokens)
	if n == 0 {
		return tokens
	}

	last := tokens[n-1]
	if !strings.HasSuffix(last.Value, "\n") {
		return tokens
	}

	last.Value = strings.TrimSuffix(last.Value, "\n")
	if len(last.Value) == 0 {
		return tokens[:n-1]
	}
	out := make([]chroma.Token, n)
	copy(out, tokens)
	out[n-1] = last
	return out
}
