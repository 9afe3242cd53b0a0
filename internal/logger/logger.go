package logger

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func SetLevel(l Level) { current.Store(int32(l)) }

func CurrentLevel() Level { return Level(current.Load()) }

// Enabled reports whether messages at l are printed.
func Enabled(l Level) bool { return l >= CurrentLevel() }

func logMessage(level Level, format string, v ...interface{}) {
	if !Enabled(level) {
		return
	}

	const (
		colorReset  = "\033[0m"
		colorCyan   = "\033[36m"
		colorBlue   = "\033[34m"
		colorYellow = "\033[33m"
		colorRed    = "\033[31m"
	)

	var colorCode string
	switch level {
	case LevelDebug:
		colorCode = colorCyan
	case LevelInfo:
		colorCode = colorBlue
	case LevelWarn:
		colorCode = colorYellow
	case LevelError:
		colorCode = colorRed
	}

	prefix := fmt.Sprintf("%s[%s]%s ", colorCode, level.String(), colorReset)
	log.Printf(prefix+format, v...)
}

func Debug(format string, v ...interface{}) { logMessage(LevelDebug, format, v...) }
func Info(format string, v ...interface{})  { logMessage(LevelInfo, format, v...) }
func Warn(format string, v ...interface{})  { logMessage(LevelWarn, format, v...) }
func Error(format string, v ...interface{}) { logMessage(LevelError, format, v...) }
