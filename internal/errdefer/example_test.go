package errdefer_test

import (
	"fmt"
	"os"
	"path/filepath"

	"go.abhg.dev/codeblock/internal/errdefer"
)

// writeStylesheet reports a failure to flush the file on close
// even though the write itself succeeded.
func writeStylesheet(path, css string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer errdefer.Close(&err, f) // err must be a named return

	_, err = f.WriteString(css)
	return err
}

func ExampleClose() {
	dir, err := os.MkdirTemp("", "errdefer")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	err = writeStylesheet(filepath.Join(dir, "style.css"), ".hljs { display: block; }")
	fmt.Println(err)
	// Output: <nil>
}
