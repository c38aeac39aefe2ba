package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NoColorFor decides whether output to f should be uncolored. NO_COLOR in
// the environment or an explicit flag always wins.
func NoColorFor(f *os.File, flag bool) bool {
	if flag || os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !IsTerminal(f)
}
