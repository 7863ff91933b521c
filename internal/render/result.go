package render

import (
	"errors"
	"fmt"
	"strings"
)

// Result is the outcome of rendering a block.
//
// A successful Result holds the rendered HTML.
// A failed Result holds the error and the fallback HTML
// that should be shown in place of the block.
// Either way, String returns something safe to put on the page.
type Result struct {
	html string
	err  error
}

// Ok builds a successful Result.
func Ok(html string) Result {
	return Result{html: html}
}

// Err builds a failed Result for original content
// that could not be rendered because of err.
//
// The fallback HTML is the original content
// followed by a comment describing the error.
func Err(original string, err error) Result {
	return Result{
		html: original + Comment(err),
		err:  err,
	}
}

// String returns the HTML for this Result.
func (r Result) String() string {
	return r.html
}

// Err returns the error that caused rendering to fail,
// or nil if it succeeded.
func (r Result) Err() error {
	return r.err
}

// OK reports whether rendering succeeded.
func (r Result) OK() bool {
	return r.err == nil
}

// PanicError is a panic recovered while rendering a block.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Comment renders an error as an HTML comment of the form
//
//	<!-- Type(code): message -->
//
// Type is the type of the innermost wrapped error.
// code is taken from the first error in the chain
// with a Code() int method, or 0.
// Any "--" is removed so that the comment cannot end early.
func Comment(err error) string {
	var code int
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		code = coder.Code()
	}

	return fmt.Sprintf("<!-- %s(%d): %s -->",
		stripDashes(errorType(err)),
		code,
		stripDashes(err.Error()),
	)
}

func errorType(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return fmt.Sprintf("%T", err)
		}
		err = inner
	}
}

// stripDashes removes every "--" from s,
// including ones formed by earlier removals.
func stripDashes(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "")
	}
	return s
}
