package flagvalue

import (
	"flag"
	"io"
	"os"

	"braces.dev/errtrace"
)

// FileSwitch is an output flag like -css or -debug
// that may be passed alone or with a file name.
//
//	-debug           write to the fallback (usually stderr)
//	-debug=FILE      write to FILE
//	-debug=-         same as -debug
//	-debug=false     turn the output off
//
// The explicit forms exist for configuration files
// and environment variables, where a bare flag can't be spelled.
type FileSwitch string

var _ flag.Getter = (*FileSwitch)(nil)

// Get returns the file name, "-" for the fallback,
// or an empty string if the switch is off.
func (fs *FileSwitch) Get() any { return string(*fs) }

func (fs *FileSwitch) String() string {
	return string(*fs)
}

// IsBoolFlag allows the flag to be passed without a value.
func (*FileSwitch) IsBoolFlag() bool {
	return true
}

// Set receives the value for this flag.
func (fs *FileSwitch) Set(v string) error {
	switch v {
	case "true":
		v = "-"
	case "false":
		v = ""
	}
	*fs = FileSwitch(v)
	return nil
}

// Bool reports whether the switch is on.
func (fs *FileSwitch) Bool() bool {
	return len(*fs) > 0
}

// Create opens the destination selected by this flag.
// It returns io.Discard if the switch is off,
// and fallback if no file name was given.
//
// The returned function must be called when the writer is no longer needed.
func (fs *FileSwitch) Create(fallback io.Writer) (w io.Writer, close func() error, err error) {
	switch *fs {
	case "":
		return io.Discard, nopClose, nil
	case "-":
		return fallback, nopClose, nil
	}

	f, err := os.Create(string(*fs))
	if err != nil {
		return nil, nil, errtrace.Wrap(err)
	}
	return f, f.Close, nil
}

func nopClose() error { return nil }
