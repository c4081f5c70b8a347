package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Level represents the log level
type Level int

const (
	LevelDebug Level = iota // Debug information (only shown with --verbose)
	LevelInfo               // Important steps
	LevelError              // Error messages
)

// ANSI color codes for diagnostic output
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorBlue  = "\033[34m"
	ColorCyan  = "\033[36m"
	ColorGray  = "\033[90m"
	ColorBold  = "\033[1m"
)

// Logger writes leveled diagnostics. Conversation output does not go through it.
type Logger struct {
	writer    io.Writer
	level     Level
	showTime  bool
	colorMode bool
}

// NewLogger creates a new Logger instance
func NewLogger(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		writer:    w,
		level:     level,
		showTime:  true,
		colorMode: true,
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	l := NewLogger(io.Discard, LevelError+1)
	l.colorMode = false
	return l
}

// SetColorMode enables or disables colored output
func (l *Logger) SetColorMode(enabled bool) {
	l.colorMode = enabled
}

// SetShowTime enables or disables timestamp display
func (l *Logger) SetShowTime(enabled bool) {
	l.showTime = enabled
}

// Debug logs debug information (only shown in verbose mode)
func (l *Logger) Debug(format string, args ...any) {
	if l.level <= LevelDebug {
		l.log(ColorGray, "DEBUG", format, args...)
	}
}

// Info logs general information
func (l *Logger) Info(format string, args ...any) {
	if l.level <= LevelInfo {
		l.log(ColorBlue, "INFO", format, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...any) {
	if l.level <= LevelError {
		l.log(ColorRed, "ERROR", format, args...)
	}
}

// Payload logs a value as JSON at debug level
func (l *Logger) Payload(title string, v any) {
	if l.level > LevelDebug {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		l.Debug("%s: <unencodable: %v>", title, err)
		return
	}
	l.printSection(ColorCyan, title, l.formatJSON(string(data)))
}

// SessionEnd logs conversation statistics at debug level
func (l *Logger) SessionEnd(duration time.Duration, turns, totalTokens int) {
	l.Debug("Session ended after %s | Turns: %d | Tokens: %d",
		duration.Round(time.Millisecond), turns, totalTokens)
}

// log is the core logging method
func (l *Logger) log(color, level, format string, args ...any) {
	timestamp := ""
	if l.showTime {
		timestamp = time.Now().Format("15:04:05") + " "
	}

	msg := fmt.Sprintf(format, args...)

	if l.colorMode {
		fmt.Fprintf(l.writer, "%s%s[%s]%s %s\n",
			color, timestamp, level, ColorReset, msg)
	} else {
		fmt.Fprintf(l.writer, "%s[%s] %s\n", timestamp, level, msg)
	}
}

// printSection prints a formatted section with header and content
func (l *Logger) printSection(color, header, content string) {
	separator := strings.Repeat("─", 60)

	if l.colorMode {
		fmt.Fprintf(l.writer, "%s%s%s%s\n", ColorBold, color, header, ColorReset)
		fmt.Fprintf(l.writer, "%s%s%s\n", color, separator, ColorReset)
		fmt.Fprintf(l.writer, "%s\n", content)
		fmt.Fprintf(l.writer, "%s%s%s\n", color, separator, ColorReset)
	} else {
		fmt.Fprintf(l.writer, "%s\n%s\n%s\n%s\n", header, separator, content, separator)
	}
}

// formatJSON keeps short JSON compact and pretty-prints long JSON
func (l *Logger) formatJSON(jsonStr string) string {
	compact := strings.TrimSpace(jsonStr)
	if len(compact) < 80 {
		return compact
	}

	var obj any
	if err := json.Unmarshal([]byte(compact), &obj); err != nil {
		return compact
	}

	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return compact
	}
	return string(pretty)
}
