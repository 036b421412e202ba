package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "SKETCHUI_LOG_LEVEL"

// LogFileEnvVar names a file to append logs to. The terminal canvas owns
// stdout, so interactive sessions should always log to a file.
const LogFileEnvVar = "SKETCHUI_LOG_FILE"

// Options configure Initialize. Empty fields fall back to the environment.
type Options struct {
	Level string
	File  string
}

// Initialize creates the global logger. If neither opts.Level nor
// SKETCHUI_LOG_LEVEL is set, logging is disabled (silent mode). Output goes
// to opts.File or SKETCHUI_LOG_FILE when set, otherwise to stderr.
func Initialize(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		return err
	}

	output := opts.File
	if output == "" {
		output = os.Getenv(LogFileEnvVar)
	}
	if output == "" {
		output = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{output},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if output == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// InitializeFromEnv initializes the logger from SKETCHUI_LOG_LEVEL and
// SKETCHUI_LOG_FILE.
func InitializeFromEnv() error {
	return Initialize(Options{})
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogIngest logs a newly ingested document.
func LogIngest(source string, screenName string, elements int) {
	Info("Document ingested",
		zap.String("source", source),
		zap.String("screen_name", screenName),
		zap.Int("elements", elements),
	)
}

// LogIngestFailure logs a failed ingestion. The previous document is kept.
func LogIngestFailure(source string, err error) {
	Warn("Ingestion failed",
		zap.String("source", source),
		zap.Error(err),
	)
}

// LogEdit logs a single field update.
func LogEdit(elementID string, field string, applied bool) {
	Debug("Element edited",
		zap.String("element_id", elementID),
		zap.String("field", field),
		zap.Bool("applied", applied),
	)
}

// LogSelection logs a selection transition.
func LogSelection(from, to string) {
	Debug("Selection changed",
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogThemeSwitch logs a change of the active theme.
func LogThemeSwitch(from, to string) {
	Info("Theme switched",
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogPreviewClient logs a preview websocket client event.
func LogPreviewClient(remoteAddr string, event string, clients int) {
	Info("Preview client event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
		zap.Int("clients", clients),
	)
}

// LogHTTPRequest logs an HTTP request served by the preview server.
func LogHTTPRequest(remoteAddr string, method string, path string, status int) {
	Debug("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
