package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LogLevel is the verbosity threshold of the process-wide log sink
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	// LogLevelInfo adds one line per scanned file
	LogLevelInfo
	// LogLevelDebug adds chunk-level read and write events
	LogLevelDebug
)

var levelNames = [...]string{
	LogLevelSilent: "SILENT",
	LogLevelError:  "ERROR",
	LogLevelWarn:   "WARN",
	LogLevelInfo:   "INFO",
	LogLevelDebug:  "DEBUG",
}

func (l LogLevel) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name such as "debug" or "WARN" into a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if upper == "WARNING" {
		upper = "WARN"
	}
	for level, levelName := range levelNames {
		if levelName == upper {
			return LogLevel(level), nil
		}
	}
	return LogLevelError, fmt.Errorf("unknown log level %q", name)
}

// sink is shared by every Logger; lines from concurrent scans never
// interleave within a line.
type sink struct {
	level  atomic.Int32
	mu     sync.Mutex
	output io.Writer
}

var global = func() *sink {
	s := &sink{output: os.Stderr}
	s.level.Store(int32(LogLevelError))
	return s
}()

// Logger tags its lines with a component name. The zero value is untagged.
type Logger struct {
	component string
}

var defaultLogger = &Logger{}

// Named returns a logger whose lines carry component after the level.
func Named(component string) *Logger {
	return &Logger{component: component}
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	global.level.Store(int32(level))
}

// GetLogLevel returns the current log level
func GetLogLevel() LogLevel {
	return LogLevel(global.level.Load())
}

// SetOutput redirects all loggers and returns the previous writer
func SetOutput(w io.Writer) io.Writer {
	global.mu.Lock()
	defer global.mu.Unlock()
	prev := global.output
	global.output = w
	return prev
}

// Enabled reports whether messages at level would be written
func Enabled(level LogLevel) bool {
	return level != LogLevelSilent && level <= GetLogLevel()
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if !Enabled(level) {
		return
	}

	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(time.Now().Format("15:04:05.000"))
	b.WriteString("] ")
	b.WriteString(level.String())
	if l.component != "" {
		b.WriteByte(' ')
		b.WriteString(l.component)
	}
	b.WriteString(": ")
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')

	global.mu.Lock()
	defer global.mu.Unlock()
	io.WriteString(global.output, b.String())
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LogLevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LogLevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LogLevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LogLevelError, format, args...) }

// Debug logs an untagged debug message
func Debug(format string, args ...interface{}) {
	defaultLogger.log(LogLevelDebug, format, args...)
}

// Info logs an untagged info message
func Info(format string, args ...interface{}) {
	defaultLogger.log(LogLevelInfo, format, args...)
}

// Warn logs an untagged warning
func Warn(format string, args ...interface{}) {
	defaultLogger.log(LogLevelWarn, format, args...)
}

// Error logs an untagged error
func Error(format string, args ...interface{}) {
	defaultLogger.log(LogLevelError, format, args...)
}
