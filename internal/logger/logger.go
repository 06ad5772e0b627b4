package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger for the given environment.
// prod writes JSON, local writes colored console output, test discards everything.
// levelOverride (if non-empty) overrides the log level: debug, info, warn, error.
// Every entry carries the service name and env.
func NewLogger(env string, levelOverride ...string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// Search and statistics requests are sparse; sampling would drop
		// the wide event of a slow query.
		cfg.Sampling = nil
	case "local":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "test":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if len(levelOverride) > 0 && levelOverride[0] != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(levelOverride[0])); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", levelOverride[0], err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.With(zap.String("service", "msgsearch"), zap.String("env", env)), nil
}

// WithArchive tags l with the partition set every query spans, rendered as
// a range (chunk1..chunk30) instead of the full list.
func WithArchive(l *zap.Logger, indices []string) *zap.Logger {
	return l.With(zap.String("archive", archiveRange(indices)), zap.Int("partitions", len(indices)))
}

// Component returns a named child logger for one subsystem.
func Component(l *zap.Logger, name string) *zap.Logger {
	return l.Named(name)
}

func archiveRange(indices []string) string {
	switch len(indices) {
	case 0:
		return ""
	case 1:
		return indices[0]
	default:
		return indices[0] + ".." + indices[len(indices)-1]
	}
}
