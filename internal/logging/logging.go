// Package logging wraps logrus with the service's structured-output conventions: a "service"
// field on every entry, JSON or text formatting selected at construction, and trace-scoped
// entries derived from request context.
package logging

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// ContextKey namespaces values this package reads off a context.Context.
type ContextKey string

const (
	TraceIDKey  ContextKey = "trace_id"
	SessionKey  ContextKey = "session_id"
	RoleKey     ContextKey = "role"
)

// Logger wraps logrus.Logger with the service name baked into every entry.
type Logger struct {
	*logrus.Logger
	service string
}

// New builds a Logger at the given level ("debug", "info", "warn", ...) and format
// ("json" or "text"); invalid levels fall back to info.
func New(service, level, format string) *Logger {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.RFC3339, FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	return &Logger{Logger: logger, service: service}
}

// Entry returns a base entry carrying just the service field.
func (l *Logger) Entry() *logrus.Entry {
	return l.Logger.WithField("service", l.service)
}

// WithContext enriches the base entry with trace/session/role values present on ctx.
func (l *Logger) WithContext(ctx context.Context) *logrus.Entry {
	entry := l.Entry()
	if traceID := ctx.Value(TraceIDKey); traceID != nil {
		entry = entry.WithField("trace_id", traceID)
	}
	if sessionID := ctx.Value(SessionKey); sessionID != nil {
		entry = entry.WithField("session_id", sessionID)
	}
	if role := ctx.Value(RoleKey); role != nil {
		entry = entry.WithField("role", role)
	}
	return entry
}
