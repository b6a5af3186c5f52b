package log

import (
	"context"

	"github.com/thep200/gitgrade/cfg"
)

type Logger interface {
	Info(ctx context.Context, format string, args ...interface{})
	Alert(ctx context.Context, format string, args ...interface{})
	Error(ctx context.Context, format string, args ...interface{})
	Warn(ctx context.Context, format string, args ...interface{})
	Debug(ctx context.Context, format string, args ...interface{})
	Notice(ctx context.Context, format string, args ...interface{})
	Critical(ctx context.Context, format string, args ...interface{})
	Emergency(ctx context.Context, format string, args ...interface{})
}

func NewLogger(logger Logger) (Logger, error) {
	return logger, nil
}

// NewFromConfig picks the backend named by Log.Backend ("console" or "logrus")
func NewFromConfig(config *cfg.Config) (Logger, error) {
	switch config.Log.Backend {
	case "console", "csl":
		l, err := NewCslLogger()
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		l, err := NewLogrusLogger(config.Log.Level, config.Log.Format)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}
