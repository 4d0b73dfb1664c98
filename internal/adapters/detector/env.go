// Package detector provides environment detection for log format selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat represents how log records are written.
type LogFormat int

const (
	// FormatAuto picks a format from the environment.
	FormatAuto LogFormat = iota
	// FormatPretty forces colored, human-readable lines.
	FormatPretty
	// FormatJSON forces one JSON object per record.
	FormatJSON
)

func (f LogFormat) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended log format.
// Logs go to stderr, so a non-terminal stderr or a CI environment selects JSON.
func DetectEnvironment() LogFormat {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	if !isTTY || isCI() {
		return FormatJSON
	}
	return FormatPretty
}

func isCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// ResolveFormat applies the user's --log-format flag to the detected format.
// userFlag should be one of "auto", "pretty", "json" or empty; anything else falls back
// to the detected format.
func ResolveFormat(autoDetected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return autoDetected
	}
}
