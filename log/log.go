package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

var (
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Int32    = zap.Int32
	Int64    = zap.Int64
	Uint32   = zap.Uint32
	Float32  = zap.Float32
	Float64  = zap.Float64
	Bool     = zap.Bool
	Duration = zap.Duration
	Any      = zap.Any
	Ints     = zap.Ints

	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
	AddStacktrace = zap.AddStacktrace
)

// ErrorField is the preferred way to attach an error to a log entry.
func ErrorField(err error) Field {
	return zap.Error(err)
}

// Logger wraps a zap logger together with the level it was created with.
type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

// Named returns a child logger. Nested names are joined with a dot.
func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

// With returns a child logger carrying the given fields on every entry.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

func (l *Logger) Level() Level {
	return l.level.Level()
}

func (l *Logger) SetLevel(lvl Level) {
	l.level.SetLevel(lvl)
}

func (l *Logger) ZapLogger() *zap.Logger {
	return l.l
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

// New creates a logger with a json encoder (production setup).
func New(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		panic("the writer is nil")
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	return newLogger(zapcore.NewJSONEncoder(cfg.EncoderConfig), w, level, opts...)
}

// DevLogger creates a logger with a human readable console encoder.
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	if w == nil {
		panic("the writer is nil")
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return newLogger(zapcore.NewConsoleEncoder(cfg.EncoderConfig), w, level, opts...)
}

// NewWithConfig builds a logger from a loaded log configuration.
// Entries of named loggers listed in cfg.Loggers are filtered by their own level.
func NewWithConfig(cfg *Config, level Level, opts ...Option) (*Logger, error) {
	if cfg.DefaultLevel != "" {
		if lvl, err := ParseLevel(cfg.DefaultLevel); err == nil {
			level = lvl
		}
	}
	atomic := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.Zap.Level = atomic
	base, err := cfg.Zap.Build(opts...)
	if err != nil {
		return nil, err
	}
	named := make(map[string]Level, len(cfg.Loggers))
	for name, l := range cfg.Loggers {
		if lvl, err := ParseLevel(l); err == nil {
			named[name] = lvl
		}
	}
	defaultLevel := level
	core := base.Core()
	filtered := zap.WrapCore(func(zapcore.Core) zapcore.Core {
		return &namedLevelCore{Core: core, defaultLevel: defaultLevel, named: named}
	})
	return &Logger{l: base.WithOptions(filtered), level: zap.NewAtomicLevelAt(level)}, nil
}

func newLogger(enc zapcore.Encoder, w io.Writer, level Level, opts ...Option) *Logger {
	atomic := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(enc, zapcore.AddSync(w), atomic)
	return &Logger{l: zap.New(core, opts...), level: atomic}
}

// namedLevelCore applies per-logger levels configured by name.
type namedLevelCore struct {
	zapcore.Core
	defaultLevel Level
	named        map[string]Level
}

func (c *namedLevelCore) levelFor(name string) Level {
	if lvl, ok := c.named[name]; ok {
		return lvl
	}
	return c.defaultLevel
}

func (c *namedLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &namedLevelCore{Core: c.Core.With(fields), defaultLevel: c.defaultLevel, named: c.named}
}

func (c *namedLevelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if e.Level < c.levelFor(e.LoggerName) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

var (
	std   = DevLogger(os.Stderr, InfoLevel, WithCaller(true), AddCallerSkip(1))
	stdMu sync.RWMutex
)

// Default returns the process wide logger.
func Default() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// ResetDefault replaces the process wide logger used by the package functions.
func ResetDefault(l *Logger) {
	stdMu.Lock()
	defer stdMu.Unlock()
	std = l
}

func Debug(msg string, fields ...Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { Default().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { Default().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { Default().Fatal(msg, fields...) }

func Sync() error {
	return Default().Sync()
}
