package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// shouldColorize reports whether w is a terminal that can show ANSI colors.
func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
