package log

import "context"

type loggerKey struct{}

func AddToContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetFromContext returns the logger stored in ctx or nil if there is none.
func GetFromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return nil
	}
	if logger, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return logger
	}
	return nil
}

// FromContextOrDefault falls back to the process wide logger.
func FromContextOrDefault(ctx context.Context) *Logger {
	if l := GetFromContext(ctx); l != nil {
		return l
	}
	return Default()
}
