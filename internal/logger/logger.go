package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the severity level of a log entry
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

type contextKey string

const requestIDKey contextKey = "request_id"

var (
	appLogger *Logger
	dbLogger  *Logger
	mu        sync.RWMutex
)

// Entry represents a single log entry
type Entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     Level                  `json:"level"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger provides structured JSON logging
type Logger struct {
	output   io.Writer
	minLevel Level
}

// Config holds logger configuration
type Config struct {
	Output   io.Writer
	MinLevel Level
}

// New creates a new logger with the given configuration
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.MinLevel == "" {
		cfg.MinLevel = LevelInfo
	}

	return &Logger{
		output:   cfg.Output,
		minLevel: cfg.MinLevel,
	}
}

// Default creates a logger with default configuration
func Default() *Logger {
	return New(Config{})
}

// NewWithLevel creates a new logger with a specific log level string
func NewWithLevel(level string) *Logger {
	return New(Config{MinLevel: parseLevel(level)})
}

// App returns the singleton application logger instance
func App() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if appLogger == nil {
		return Default()
	}
	return appLogger
}

// Database returns the singleton database logger instance
func Database() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	if dbLogger == nil {
		return Default()
	}
	return dbLogger
}

// Initialize sets up the app and database loggers with the given levels
func Initialize(appLevel, dbLevel string) {
	mu.Lock()
	defer mu.Unlock()
	appLogger = NewWithLevel(appLevel)
	dbLogger = NewWithLevel(dbLevel)
}

// SetApp replaces the application logger (primarily for testing)
func SetApp(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	appLogger = l
}

func parseLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.log(LevelDebug, msg, nil, nil)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.log(LevelInfo, msg, nil, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.log(LevelWarn, msg, nil, nil)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error) {
	l.log(LevelError, msg, nil, err)
}

// InfoContext logs an info message with request context
func (l *Logger) InfoContext(ctx context.Context, msg string) {
	l.log(LevelInfo, msg, contextFields(ctx), nil)
}

// ErrorContext logs an error message with request context
func (l *Logger) ErrorContext(ctx context.Context, msg string, err error) {
	l.log(LevelError, msg, contextFields(ctx), err)
}

// WithFields returns a logger that attaches the given fields to each entry
func (l *Logger) WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{
		logger: l,
		fields: fields,
	}
}

func (l *Logger) log(level Level, msg string, fields map[string]interface{}, err error) {
	if !l.shouldLog(level) {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
		Context:   fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, _ := json.Marshal(entry)
	fmt.Fprintln(l.output, string(data))
}

func (l *Logger) shouldLog(level Level) bool {
	levels := map[Level]int{
		LevelDebug: 0,
		LevelInfo:  1,
		LevelWarn:  2,
		LevelError: 3,
	}
	return levels[level] >= levels[l.minLevel]
}

func contextFields(ctx context.Context) map[string]interface{} {
	if requestID := ctx.Value(requestIDKey); requestID != nil {
		return map[string]interface{}{"request_id": requestID}
	}
	return nil
}

// FieldLogger is a logger with pre-set fields
type FieldLogger struct {
	logger *Logger
	fields map[string]interface{}
}

// Debug logs a debug message with fields
func (fl *FieldLogger) Debug(msg string) {
	fl.logger.log(LevelDebug, msg, fl.fields, nil)
}

// Info logs an info message with fields
func (fl *FieldLogger) Info(msg string) {
	fl.logger.log(LevelInfo, msg, fl.fields, nil)
}

// Warn logs a warning message with fields
func (fl *FieldLogger) Warn(msg string) {
	fl.logger.log(LevelWarn, msg, fl.fields, nil)
}

// Error logs an error message with fields
func (fl *FieldLogger) Error(msg string, err error) {
	fl.logger.log(LevelError, msg, fl.fields, err)
}

// ContextWithRequestID adds a request ID to the context
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
