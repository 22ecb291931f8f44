// Package ports defines interfaces for external dependencies.
package ports

import "strings"

// LogLevel orders log messages by severity.
type LogLevel int

const (
	LevelDebug LogLevel = iota // per-component detail: frames seeked, bytes written
	LevelInfo                  // pipeline progress
	LevelWarn                  // recoverable: a skipped frame, a stale file left behind
	LevelError                 // the run stops
	LevelQuiet                 // nothing is printed
)

var levelNames = [...]string{"debug", "info", "warn", "error", "quiet"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel maps a level name to a LogLevel, ignoring case. "warning"
// is accepted for LevelWarn. Unknown names map to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return LevelWarn
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i)
		}
	}
	return LevelInfo
}

// Logger writes leveled messages. msg is a lexicon key: implementations
// translate it before applying args as fmt verbs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags every message with the
	// component name.
	WithComponent(component string) Logger
}
