package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// Logger is a tagged console logger. Each subsystem builds its own
// instance so log lines carry the subsystem name.
type Logger struct {
	tag   string
	debug bool
}

var palette = map[string]func(format string, a ...interface{}){
	"INFO":    color.Cyan,
	"SUCCESS": color.Green,
	"WARN":    color.Yellow,
	"ERROR":   color.Red,
	"DEBUG":   color.Magenta,
}

// New returns a logger tagged with the given subsystem name. Debug lines
// are emitted only when LOG_DEBUG is set.
func New(tag string) *Logger {
	return &Logger{
		tag:   tag,
		debug: os.Getenv("LOG_DEBUG") != "",
	}
}

func (l *Logger) print(level, msg string) {
	_, file, line, _ := runtime.Caller(2)
	palette[level]("%s [%-7s] %s:%d (%s) %s",
		time.Now().Format(time.RFC3339),
		level,
		filepath.Base(file),
		line,
		l.tag,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.print("INFO", fmt.Sprintf(msg, args...))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	l.print("SUCCESS", fmt.Sprintf(msg, args...))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.print("WARN", fmt.Sprintf(msg, args...))
}

// Error logs the message with the cause appended and returns the wrapped
// error so call sites can log and propagate in one statement.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	text := fmt.Sprintf(msg, args...)
	l.print("ERROR", fmt.Sprintf("%s: %v", text, err))
	return fmt.Errorf("%s: %w", text, err)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.print("DEBUG", fmt.Sprintf(msg, args...))
}
