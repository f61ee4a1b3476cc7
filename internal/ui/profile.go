package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Configure picks the colour profile for output written to w. Styles render
// as plain text unless w is a terminal and colour is not disabled.
func Configure(w io.Writer, noColor bool) termenv.Profile {
	p := termenv.Ascii
	if !noColor && !termenv.EnvNoColor() && IsTerminal(w) {
		p = termenv.NewOutput(w).EnvColorProfile()
	}
	lipgloss.SetColorProfile(p)
	return p
}

// IsTerminal reports whether w is a terminal (including Cygwin/MSYS ptys).
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
