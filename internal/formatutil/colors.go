// Package formatutil colors terminal output.
package formatutil

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

var (
	Bold   = Color("\033[1m%s\033[0m")
	Faint  = Color("\033[2m%s\033[0m")
	Red    = Color("\033[1;31m%s\033[0m")
	Green  = Color("\033[1;32m%s\033[0m")
	Yellow = Color("\033[1;33m%s\033[0m")
)

// Enabled reports whether escape sequences are emitted. It defaults to
// whether standard output is a terminal.
var Enabled = term.IsTerminal(int(os.Stdout.Fd()))

func Color(format string) func(...any) string {
	return func(args ...any) string {
		if !Enabled {
			return fmt.Sprint(args...)
		}
		return fmt.Sprintf(format, fmt.Sprint(args...))
	}
}

// Status colors a result status: green when ok, yellow otherwise.
func Status(ok bool, args ...any) string {
	if ok {
		return Green(args...)
	}
	return Yellow(args...)
}
