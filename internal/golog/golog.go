// Package golog is a thin leveled wrapper over the standard log
// package, used by the outer I/O layers (cache, project)
// that need to say something about what they're doing. The core
// analysis packages (span, syntax, scope, semtype, infer, flow,
// diagnostics) stay silent and take no dependency on this package.
package golog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level orders golog's four severities, lowest first.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger prints lines at or above its configured level through an
// underlying *log.Logger, prefixed with the level name.
type Logger struct {
	out   *log.Logger
	level Level
}

// New builds a Logger writing to w, filtering out anything below
// level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: log.New(w, "", log.LstdFlags), level: level}
}

// SetLevel changes the minimum level this Logger prints.
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) printf(level Level, format string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) { l.printf(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.printf(Info, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.printf(Warn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.printf(Error, format, args...) }

// Default is the package-wide logger used by callers that don't carry
// their own; it writes to os.Stderr at Info level, matching the
// teacher's habit of a package-level default rather than requiring
// every caller to construct one.
var Default = New(os.Stderr, Info)

func Debugf(format string, args ...any) { Default.Debugf(format, args...) }
func Infof(format string, args ...any)  { Default.Infof(format, args...) }
func Warnf(format string, args ...any)  { Default.Warnf(format, args...) }
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }
