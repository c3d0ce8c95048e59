// Package output provides formatted terminal output utilities.
// It includes colors, tables, and other CLI display helpers.
package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

var (
	// Colors and styles
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)

	// Stdout is the output writer for normal output (can be overridden for testing).
	Stdout io.Writer = os.Stdout
	// Stderr is the output writer for error output (can be overridden for testing).
	Stderr io.Writer = os.Stderr

	// Matches ANSI escape sequences used for colors/styles
	ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

// visibleWidth returns the number of visible characters, ignoring ANSI escape codes.
func visibleWidth(s string) int {
	clean := ansiRegexp.ReplaceAllString(s, "")
	return utf8.RuneCountInString(clean)
}

// Successf prints a success message with a checkmark (to stderr).
// Example: ✓ Connected to worker channel
func Successf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, green.Sprint("✓")+" "+format+"\n", a...)
}

// Infof prints an informational message with an arrow (to stderr).
// Example: → Watching worker roster...
func Infof(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, cyan.Sprint("→")+" "+format+"\n", a...)
}

// Warningf prints a warning message with a warning symbol (to stderr).
// Example: ⚠ Worker channel dropped
func Warningf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, yellow.Sprint("⚠")+" "+format+"\n", a...)
}

// Errorf prints an error message with an X symbol (to stderr).
// Example: ✗ Failed to load configuration
func Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stderr, red.Sprint("✗")+" "+format+"\n", a...)
}

// Blank prints a blank line.
func Blank() {
	_, _ = fmt.Fprintln(Stdout)
}

// Println prints a plain line without any formatting.
func Println(a ...any) {
	_, _ = fmt.Fprintln(Stdout, a...)
}

// Printf prints a formatted plain line.
func Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(Stdout, format, a...)
}

// KeyValue prints a key-value pair with indentation.
// Example:   API endpoint: https://api.syncdeck.app
func KeyValue(key, value string) {
	_, _ = fmt.Fprintf(Stdout, "  %s: %s\n", gray.Sprint(key), value)
}

// Bold returns text in bold.
func Bold(text string) string {
	return bold.Sprint(text)
}

// Cyan returns text in cyan.
func Cyan(text string) string {
	return cyan.Sprint(text)
}

// Gray returns text in gray.
func Gray(text string) string {
	return gray.Sprint(text)
}

// Green returns text in green.
func Green(text string) string {
	return green.Sprint(text)
}

// Yellow returns text in yellow.
func Yellow(text string) string {
	return yellow.Sprint(text)
}

// Red returns text in red.
func Red(text string) string {
	return red.Sprint(text)
}

// Table prints rows under a header, padding every column to its widest cell.
func Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && visibleWidth(cell) > widths[i] {
				widths[i] = visibleWidth(cell)
			}
		}
	}

	printRow := func(cells []string, styled func(string) string) {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			padding := strings.Repeat(" ", widths[i]-visibleWidth(cell))
			parts = append(parts, styled(cell)+padding)
		}
		_, _ = fmt.Fprintln(Stdout, "  "+strings.Join(parts, "  "))
	}

	printRow(headers, Bold)
	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = strings.Repeat("─", widths[i])
	}
	printRow(separators, Gray)
	for _, row := range rows {
		printRow(row, func(s string) string { return s })
	}
}
