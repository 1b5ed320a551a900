package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type LogLevel uint8

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes formatted lines through a buffered channel so audit
// paths never block on file IO. Lines are dropped when the buffer is
// full rather than stalling a running check.
type Logger struct {
	level LogLevel
	sinks []io.Writer
	file  *os.File
	lines chan string
	wg    sync.WaitGroup
}

// NewLogger creates a logger writing to stdout and, when path is
// non-empty, to an append-only log file.
func NewLogger(level LogLevel, path string) (*Logger, error) {
	l := &Logger{
		level: level,
		sinks: []io.Writer{os.Stdout},
		lines: make(chan string, 4096),
	}

	if path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = file
		l.sinks = append(l.sinks, file)
	}

	l.wg.Add(1)
	go l.worker()

	return l, nil
}

func (l *Logger) worker() {
	defer l.wg.Done()
	for line := range l.lines {
		for _, w := range l.sinks {
			io.WriteString(w, line)
		}
	}
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	line := fmt.Sprintf("[%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05.000"),
		level.String(),
		fmt.Sprintf(format, args...))

	select {
	case l.lines <- line:
	default:
	}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(LevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(LevelError, format, args...) }

func (level LogLevel) String() string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Close drains pending lines and closes the log file.
func (l *Logger) Close() error {
	close(l.lines)
	l.wg.Wait()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

var global *Logger

// Init installs the package-level logger.
func Init(level LogLevel, path string) error {
	logger, err := NewLogger(level, path)
	if err != nil {
		return err
	}
	global = logger
	return nil
}

// Shutdown flushes and closes the package-level logger.
func Shutdown() {
	if global != nil {
		global.Close()
		global = nil
	}
}

func Debug(format string, args ...interface{}) {
	if global != nil {
		global.Debug(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if global != nil {
		global.Info(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if global != nil {
		global.Warn(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if global != nil {
		global.Error(format, args...)
	}
}
