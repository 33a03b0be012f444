package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// ParseLevel maps a config value to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

type jsonLogger struct {
	service  string
	hostname string
	level    Level
	out      io.Writer
	mu       sync.Mutex
}

type Option func(*jsonLogger)

func WithLevel(level Level) Option {
	return func(l *jsonLogger) {
		l.level = level
	}
}

func WithOutput(w io.Writer) Option {
	return func(l *jsonLogger) {
		l.out = w
	}
}

func New(service string, opts ...Option) Logger {
	hostname, _ := os.Hostname()
	l := &jsonLogger{
		service:  service,
		hostname: hostname,
		level:    LevelInfo,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Nop discards every entry.
func Nop() Logger {
	return New("nop", WithOutput(io.Discard), WithLevel(LevelError+1))
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(LevelInfo, action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(LevelDebug, action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(LevelError, action, message, requestID, details, err)
}

func (l *jsonLogger) log(level Level, action, message, requestID string, details map[string]interface{}, err error) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Service:   l.service,
		Hostname:  l.hostname,
		RequestID: requestID,
		Action:    action,
		Message:   message,
		Details:   details,
	}

	if err != nil {
		entry.Error = &ErrorInfo{
			Msg:  err.Error(),
			Type: errorType(err),
		}
	}

	_ = json.NewEncoder(l.out).Encode(entry)
}
