package domain

import (
	"net"
	"strconv"
	"time"

	"go.trai.ch/zerr"
)

// LineEnding names the line terminator written into text outputs.
type LineEnding string

const (
	// LineEndingLF writes "\n".
	LineEndingLF LineEnding = "lf"
	// LineEndingCRLF writes "\r\n".
	LineEndingCRLF LineEnding = "crlf"
	// LineEndingCR writes "\r".
	LineEndingCR LineEnding = "cr"
)

// Sequence returns the terminator bytes for l, or "" if l is not a known ending.
func (l LineEnding) Sequence() string {
	switch l {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return ""
	}
}

// ServerConfig configures the development server.
type ServerConfig struct {
	Host string
	Port int
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ScriptConfig configures script transpilation.
type ScriptConfig struct {
	// Target is the language level scripts are lowered to, e.g. "es2015".
	Target string
}

// StyleConfig configures stylesheet compilation and prefixing.
type StyleConfig struct {
	// SassBinary is the Dart Sass executable, looked up in $PATH when not absolute.
	SassBinary string
	// PrefixTargets lists browser engines and versions, e.g. "chrome129".
	PrefixTargets []string
}

// WatchConfig configures the watch loop.
type WatchConfig struct {
	// Delay is the quiet period before a burst of events triggers its binding.
	Delay time.Duration
}

// Config is the resolved project configuration.
type Config struct {
	Server     ServerConfig
	LineEnding LineEnding
	Script     ScriptConfig
	Style      StyleConfig
	Watch      WatchConfig
}

// DefaultConfig returns the configuration used when no kiln.yaml is present.
// Prefix targets approximate "last 2 versions" of the major browsers.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 3000,
		},
		LineEnding: LineEndingCRLF,
		Script: ScriptConfig{
			Target: "es2015",
		},
		Style: StyleConfig{
			SassBinary: "sass",
			PrefixTargets: []string{
				"chrome129", "edge129", "firefox130", "safari17.5", "ios17.5", "opera113",
			},
		},
		Watch: WatchConfig{
			Delay: 200 * time.Millisecond,
		},
	}
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	if c.LineEnding.Sequence() == "" {
		return zerr.With(ErrConfigInvalid, "lineEnding", string(c.LineEnding))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return zerr.With(ErrConfigInvalid, "server.port", c.Server.Port)
	}
	if c.Script.Target == "" {
		return zerr.With(ErrConfigInvalid, "script.target", c.Script.Target)
	}
	if c.Style.SassBinary == "" {
		return zerr.With(ErrConfigInvalid, "style.sassBinary", c.Style.SassBinary)
	}
	if c.Watch.Delay < 0 {
		return zerr.With(ErrConfigInvalid, "watch.delay", c.Watch.Delay.String())
	}
	return nil
}
