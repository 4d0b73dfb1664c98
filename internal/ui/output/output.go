// Package output provides utilities for creating termenv.Output with consistent
// color profile and TTY handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns the color profile for interactive terminals.
// NO_COLOR forces plain output; otherwise the terminal's capabilities are detected.
func ColorProfile() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI returns the color profile for CI and piped output.
// NO_COLOR forces plain output; otherwise basic ANSI colors are used.
func ColorProfileANSI() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New creates a termenv.Output on w using ColorProfile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return NewWithProfile(w, ColorProfile, opts...)
}

// NewWithProfile creates a termenv.Output on w with the profile chosen by profileFn.
func NewWithProfile(w io.Writer, profileFn func() termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	opts = append(opts,
		termenv.WithProfile(profileFn()),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}

func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}
