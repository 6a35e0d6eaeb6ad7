package main

import (
	"fmt"
	"os"
)

// ANSI escape codes for terminal output. All human-facing status lines go
// to stderr so that stdout stays clean for piping (ask writes the reply
// itself to stdout).
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func stderrLine(color, prefix, format string, args ...any) {
	fmt.Fprintln(os.Stderr, colorize(color, prefix+fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { stderrLine(colorGreen, "✓ ", format, args...) }

func printError(format string, args ...any) { stderrLine(colorRed, "✗ ", format, args...) }

func printWarning(format string, args ...any) { stderrLine(colorYellow, "⚠ ", format, args...) }

func printStep(format string, args ...any) { stderrLine(colorCyan, "→ ", format, args...) }

// printStatus renders an indented "label: value" line, with the label in
// bold.
func printStatus(label string, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", colorize(colorBold, label+":"), fmt.Sprintf(format, args...))
}
