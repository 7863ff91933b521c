// Package flagvalue holds flag.Value types shared by codeblock's flags:
// repeatable lists, JSON objects, and output switches.
package flagvalue

import "flag"

// Getter constrains PT to be a pointer to T
// that implements flag.Getter.
type Getter[T any] interface {
	*T
	flag.Getter
}
