package sdk

import (
	"context"

	"go.uber.org/zap"
)

type Logger interface {
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
}

type contextLoggerValueT string

const ContextLoggerValue = contextLoggerValueT("safekit-logger")

// LoggerFrom extracts the logger carried by the context, falling back to a
// production zap logger.
func LoggerFrom(ctx context.Context) Logger {
	value := ctx.Value(ContextLoggerValue)
	logger, ok := value.(Logger)
	if !ok {
		logger = zap.Must(zap.NewProduction()).Sugar()
	}

	return logger
}

// WithLogger returns a context carrying the given logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ContextLoggerValue, logger)
}
