package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
)

// Color modes accepted by SetColorMode.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	forceColor   bool
	disableColor bool

	// Out and Err are where OK/Warn/Fail and Panel write.
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

// SetColorMode switches between tty detection, forced color and plain text.
func SetColorMode(mode string) {
	forceColor = mode == ColorAlways
	disableColor = mode == ColorNever
}

func isTTY() bool {
	f, ok := Out.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when output is colored.
func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(msg string)   { fmt.Fprintln(Out, C(current.Success, current.SymDone+" "+msg)) }
func Warn(msg string) { fmt.Fprintln(Err, C(current.Pending, "! "+msg)) }
func Fail(msg string) { fmt.Fprintln(Err, C(current.Error, "✖ "+msg)) }
