// Package errdefer runs cleanup operations at the end of a function
// and folds their errors into the function's returned error.
package errdefer

import (
	"io"

	"go.uber.org/multierr"
)

// Close calls Close on the given Closer,
// and appends any error it returns to the given error.
//
// Use it inside a defer statement with a named return.
func Close(err *error, closer io.Closer) {
	multierr.AppendInvoke(err, multierr.Close(closer))
}

// Invoke calls fn and appends any error it returns to the given error.
//
// Use it inside a defer statement with a named return
// for cleanup functions that aren't io.Closers.
func Invoke(err *error, fn func() error) {
	multierr.AppendInvoke(err, multierr.Invoke(fn))
}
