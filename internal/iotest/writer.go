// Package iotest provides io helpers for tests.
package iotest

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

// Writer builds an io.Writer that writes to the given testing.TB.
//
// Output is logged one line at a time.
// A partial final line is logged when the test finishes.
func Writer(t testing.TB) io.Writer {
	w := &writer{t: t}
	t.Cleanup(w.flush)
	return w
}

type writer struct {
	t testing.TB

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *writer) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(b)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line. Put it back.
			rest := append([]byte(nil), line...)
			w.buf.Reset()
			w.buf.Write(rest)
			break
		}
		w.t.Logf("%s", bytes.TrimSuffix(line, []byte("\n")))
	}
	return len(b), nil
}

func (w *writer) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.t.Logf("%s", w.buf.Bytes())
		w.buf.Reset()
	}
}
