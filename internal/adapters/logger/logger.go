// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/style"
)

// messager describes an error that can report its own message without the chain.
// zerr.Error provides it.
type messager interface {
	Message() string
}

// metadataer describes an error that carries structured key-value metadata.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain as it is shown to the user.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger writing pretty output to stderr.
func New() ports.Logger {
	return &Logger{
		logger: slog.New(newHandler(os.Stderr, false)),
		output: os.Stderr,
	}
}

func newHandler(w io.Writer, jsonMode bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonMode {
		return slog.NewJSONHandler(w, opts)
	}
	return NewPrettyHandler(w, opts)
}

// SetOutput updates the logger's output destination, keeping the current format.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and pretty logging, keeping the output destination.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	w := l.output
	if w == nil {
		w = os.Stderr
	}
	l.logger = slog.New(newHandler(w, enable))
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its full cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err.Error())
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}

// collectErrorEntries walks the chain of zerr errors, one entry per message.
// Metadata attached to an unnamed wrapper moves onto the entry below it. The walk
// stops at the first error that is not a zerr error and takes its full text.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var carried map[string]any

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: carried})
			break
		}

		var meta map[string]any
		if md, ok := current.(metadataer); ok {
			meta = md.Metadata()
		}
		if len(carried) > 0 && meta == nil {
			meta = make(map[string]any, len(carried))
		}
		for k, v := range carried {
			meta[k] = v
		}
		carried = nil

		if m.Message() == "" {
			carried = meta
			current = errors.Unwrap(current)
			continue
		}

		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		current = errors.Unwrap(current)
	}

	return entries
}

// formatErrorEntries renders entries as "Error: ..." followed by a "Caused by:" list.
// Metadata lines are sorted by key and indented under their message.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		indent := "      "
		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			indent = "       "
		} else {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			lines = append(lines, "    "+style.Arrow+" "+msgLines[0])
		}

		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
