package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fder is implemented by *os.File
type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether v is a file attached to a terminal
func IsTerminal(v any) bool {
	f, ok := v.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// ColorsEnabled decides whether w should receive ANSI colors.
// NO_COLOR (https://no-color.org/) and the --no-color flag both disable them.
func ColorsEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return IsTerminal(w)
}

// TerminalWidth returns the width of w, or 80 if it is not a terminal
func TerminalWidth(w io.Writer) int {
	const fallback = 80
	f, ok := w.(fder)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
