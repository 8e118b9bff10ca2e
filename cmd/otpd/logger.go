// logger.go - Structured logging for otpd
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger writes levelled events to the console and an optional log file.
// Warnings, errors and explicit audit events also go to the audit log.
type Logger struct {
	zl       zerolog.Logger
	auditLog *zerolog.Logger
	files    []*os.File
}

// NewLogger creates a new logger instance
func NewLogger(console io.Writer, level string, logFile string, auditFile string) (*Logger, error) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}

	logger := &Logger{}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: "2006-01-02 15:04:05"}}

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.files = append(logger.files, file)
		writers = append(writers, file)
	}
	logger.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(logLevel).With().Timestamp().Logger()

	if auditFile != "" {
		file, err := os.OpenFile(auditFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to open audit file: %w", err)
		}
		logger.files = append(logger.files, file)
		audit := zerolog.New(file).With().Timestamp().Str("stream", "audit").Logger()
		logger.auditLog = &audit
	}

	return logger, nil
}

// Close closes the logger and its files
func (l *Logger) Close() error {
	var first error
	for _, f := range l.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.files = nil
	return first
}

// Zerolog exposes the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
	l.auditLevel(zerolog.WarnLevel, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
	l.auditLevel(zerolog.ErrorLevel, format, args...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.auditLevel(zerolog.FatalLevel, format, args...)
	l.zl.Fatal().Msgf(format, args...)
}

// Audit logs an audit event
func (l *Logger) Audit(event string, details map[string]interface{}) {
	if l.auditLog != nil {
		l.auditLog.Log().Str("event", event).Fields(details).Msg("audit")
	}
}

func (l *Logger) auditLevel(level zerolog.Level, format string, args ...interface{}) {
	if l.auditLog != nil {
		l.auditLog.WithLevel(level).Msgf(format, args...)
	}
}
