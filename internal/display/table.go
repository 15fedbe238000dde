// Package display renders the prayer schedule as an aligned terminal
// table for the status subcommand.
//
// Colors use raw ANSI escape codes and respect the NO_COLOR environment
// variable (https://no-color.org/). They are disabled automatically when
// stdout is piped or redirected.
package display

import (
	"fmt"
	"os"
	"strings"
)

const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
)

// enabled reports whether color output is active. Set once at init time.
var enabled bool

func init() {
	enabled = shouldEnable()
}

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return isTerminal(os.Stdout)
}

// isTerminal reports whether f is connected to a terminal, via the
// character-device bit (no cgo or external deps).
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// SetEnabled overrides the auto-detected color state. Useful in tests.
func SetEnabled(b bool) {
	enabled = b
}

func paint(code, s string) string {
	if !enabled {
		return s
	}
	return code + s + reset
}

// Bold wraps s in the bold style.
func Bold(s string) string { return paint(bold, s) }

// Dim wraps s in the dim style.
func Dim(s string) string { return paint(dim, s) }

// Accent wraps s in the highlight style used for the next prayer row.
func Accent(s string) string { return paint(bold+yellow, s) }

// Schedule renders the two-column prayer table, highlighting the row
// whose name matches next.
func Schedule(rows [][2]string, next string) string {
	nameW, timeW := len("Prayer"), len("Time")
	for _, r := range rows {
		if len(r[0]) > nameW {
			nameW = len(r[0])
		}
		if len(r[1]) > timeW {
			timeW = len(r[1])
		}
	}

	line := func(name, t string) string {
		return fmt.Sprintf("%-*s  %-*s", nameW, name, timeW, t)
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(line("Prayer", "Time")) + "\n")
	sb.WriteString(Dim("  "+strings.Repeat("─", nameW)+"  "+strings.Repeat("─", timeW)) + "\n")

	for _, r := range rows {
		l := line(r[0], r[1])
		if r[0] == next {
			sb.WriteString("  " + Accent(l) + "\n")
		} else {
			sb.WriteString("  " + l + "\n")
		}
	}

	return sb.String()
}
