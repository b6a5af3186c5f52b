package log

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey string

// RequestIDKey is attached as a field on every entry when present in the context
const RequestIDKey ctxKey = "request_id"

// LogrusLogger maps the syslog-style levels onto logrus levels.
// Alert, Critical and Emergency are logged at error level with a "severity" field
// so they never terminate the process.
type LogrusLogger struct {
	entry *logrus.Logger
}

func NewLogrusLogger(level string, format string) (*LogrusLogger, error) {
	return newLogrusLogger(os.Stderr, level, format)
}

func newLogrusLogger(out io.Writer, level string, format string) (*LogrusLogger, error) {
	l := logrus.New()
	l.SetOutput(out)

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &LogrusLogger{entry: l}, nil
}

func (l *LogrusLogger) with(ctx context.Context, severity string) *logrus.Entry {
	e := logrus.NewEntry(l.entry).WithField("severity", severity)
	if ctx != nil {
		if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
			e = e.WithField("request_id", id)
		}
	}
	return e
}

func (l *LogrusLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "info").Infof(format, args...)
}

func (l *LogrusLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "alert").Errorf(format, args...)
}

func (l *LogrusLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "error").Errorf(format, args...)
}

func (l *LogrusLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "warn").Warnf(format, args...)
}

func (l *LogrusLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "debug").Debugf(format, args...)
}

func (l *LogrusLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "notice").Infof(format, args...)
}

func (l *LogrusLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "critical").Errorf(format, args...)
}

func (l *LogrusLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.with(ctx, "emergency").Errorf(format, args...)
}
