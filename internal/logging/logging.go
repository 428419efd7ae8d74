// Package logging configures the application loggers. Console output is a
// human-readable text handler; when a log file is configured a structured
// JSON handler writes to a size-rotated file.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	consoleLogger *slog.Logger
	fileLogger    *slog.Logger
	fileSink      io.WriteCloser
)

const LevelFatal = slog.Level(12)

var levelNames = map[slog.Leveler]string{
	LevelFatal: "FATAL",
}

// replaceLevelNames renames the custom levels in handler output.
func replaceLevelNames(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level := a.Value.Any().(slog.Level)
		if label, ok := levelNames[level]; ok {
			a.Value = slog.StringValue(label)
		}
	}
	return a
}

// Init initializes the logging system. When logPath is non-empty a
// structured JSON logger is attached to a rotated file; console logging
// always goes to stderr as text.
func Init(logPath string, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	consoleLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelNames,
	}))
	slog.SetDefault(consoleLogger)

	if logPath == "" {
		fileLogger = nil
		return
	}

	fileSink = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
	fileLogger = slog.New(slog.NewJSONHandler(fileSink, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelNames,
	}))
}

// Console returns the console logger. Returns the slog default if Init()
// has not been called.
func Console() *slog.Logger {
	if consoleLogger == nil {
		return slog.Default()
	}
	return consoleLogger
}

// File returns the structured file logger, or nil when file logging is
// disabled.
func File() *slog.Logger {
	return fileLogger
}

// ForComponent creates a logger with the 'component' attribute added.
func ForComponent(name string) *slog.Logger {
	return Console().With("component", name)
}

// Close flushes and closes the rotated log file, if any.
func Close() error {
	if fileSink == nil {
		return nil
	}
	err := fileSink.Close()
	fileSink = nil
	fileLogger = nil
	return err
}
