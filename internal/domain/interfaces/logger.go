// Package interfaces defines core domain contracts.
//
//nolint:revive // Package name 'interfaces' is intentional for domain layer
package interfaces

import (
	"fmt"
	"os"
)

// Logger is the structured logging contract injected into orchestrators
// and gateways. User-facing CLI output does not go through it.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is a structured log field.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field (convenience function).
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// NoOpLogger discards everything (useful for tests).
type NoOpLogger struct{}

// Debug does nothing.
func (n *NoOpLogger) Debug(_ string, _ ...Field) {}

// Info does nothing.
func (n *NoOpLogger) Info(_ string, _ ...Field) {}

// Warn does nothing.
func (n *NoOpLogger) Warn(_ string, _ ...Field) {}

// Error does nothing.
func (n *NoOpLogger) Error(_ string, _ ...Field) {}

// StderrLogger writes leveled lines to stderr, keeping stdout clean for
// report output.
type StderrLogger struct {
	// Verbose enables the Debug level.
	Verbose bool
}

// Debug logs debug-level messages when Verbose is set.
func (s *StderrLogger) Debug(msg string, fields ...Field) {
	if s.Verbose {
		s.log("DEBUG", msg, fields)
	}
}

// Info logs informational messages.
func (s *StderrLogger) Info(msg string, fields ...Field) {
	s.log("INFO", msg, fields)
}

// Warn logs warning messages.
func (s *StderrLogger) Warn(msg string, fields ...Field) {
	s.log("WARN", msg, fields)
}

// Error logs error messages.
func (s *StderrLogger) Error(msg string, fields ...Field) {
	s.log("ERROR", msg, fields)
}

func (s *StderrLogger) log(level, msg string, fields []Field) {
	fmt.Fprintf(os.Stderr, "%s: %s", level, msg)
	for _, f := range fields {
		fmt.Fprintf(os.Stderr, " %s=%v", f.Key, f.Value)
	}
	fmt.Fprintln(os.Stderr)
}
