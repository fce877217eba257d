package tinyvecdb

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the structured-event sink used throughout the registry and
// mutation engine. The default is a no-op; callers opt in by setting
// Config.Logger (e.g. to NewLogger or NewStdLogger) for OpenWithConfig.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

// zlogAdapter adapts a zerolog.Logger to the Logger interface, folding
// the variadic key/value pairs sqvect-style callers pass into zerolog's
// structured event builder.
type zlogAdapter struct {
	l zerolog.Logger
}

// NewLogger returns a Logger that writes structured, leveled events to w.
func NewLogger(w io.Writer, level zerolog.Level) Logger {
	return &zlogAdapter{l: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// NewStdLogger returns a Logger writing to stderr at info level.
func NewStdLogger() Logger {
	return NewLogger(os.Stderr, zerolog.InfoLevel)
}

func (z *zlogAdapter) Debug(msg string, keyvals ...any) { z.event(z.l.Debug(), msg, keyvals) }
func (z *zlogAdapter) Info(msg string, keyvals ...any)  { z.event(z.l.Info(), msg, keyvals) }
func (z *zlogAdapter) Warn(msg string, keyvals ...any)  { z.event(z.l.Warn(), msg, keyvals) }
func (z *zlogAdapter) Error(msg string, keyvals ...any) { z.event(z.l.Error(), msg, keyvals) }

func (z *zlogAdapter) With(keyvals ...any) Logger {
	ctx := z.l.With()
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, _ := keyvals[i].(string)
		if key == "" {
			continue
		}
		ctx = ctx.Interface(key, keyvals[i+1])
	}
	return &zlogAdapter{l: ctx.Logger()}
}

func (z *zlogAdapter) event(e *zerolog.Event, msg string, keyvals []any) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, _ := keyvals[i].(string)
		if key == "" {
			continue
		}
		e = e.Interface(key, keyvals[i+1])
	}
	e.Msg(msg)
}

// nopLogger discards every event.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any)   {}
func (nopLogger) Info(string, ...any)    {}
func (nopLogger) Warn(string, ...any)    {}
func (nopLogger) Error(string, ...any)   {}
func (n nopLogger) With(...any) Logger   { return n }

// NopLogger returns a Logger that discards every event.
func NopLogger() Logger { return nopLogger{} }
