// Package must asserts invariants that hold for a correctly built program,
// such as embedded data files being well-formed.
// Violations panic.
package must

import "fmt"

// NotErrorf panics with the given message if err is non-nil.
func NotErrorf(err error, format string, args ...any) {
	if err != nil {
		panic(fmt.Sprintf("unexpected error: %v\n%v", err, fmt.Sprintf(format, args...)))
	}
}
