package swrcache

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
)

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. Provide an adapter around your logging
// stack (see log/logrus and log/zap) or use NewSlogLogger.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// LogMode selects the diagnostic sink. It is resolved once in New.
type LogMode int

const (
	// LogOff disables logging (default).
	LogOff LogMode = iota
	// LogDefault writes through slog.Default().
	LogDefault
	// LogCustom writes through Options.Logger, which must be set.
	LogCustom
)

func (m LogMode) String() string {
	switch m {
	case LogOff:
		return "off"
	case LogDefault:
		return "default"
	case LogCustom:
		return "custom"
	default:
		return fmt.Sprintf("LogMode(%d)", int(m))
	}
}

func resolveLogger(mode LogMode, custom Logger) (Logger, error) {
	switch mode {
	case LogOff:
		return NopLogger{}, nil
	case LogDefault:
		return NewSlogLogger(slog.Default()), nil
	case LogCustom:
		if custom == nil {
			return nil, fmt.Errorf("swrcache: logger is required for LogCustom")
		}
		return custom, nil
	default:
		return nil, fmt.Errorf("swrcache: unknown log mode %d", int(mode))
	}
}

// SlogLogger adapts *slog.Logger.
type SlogLogger struct{ L *slog.Logger }

var _ Logger = SlogLogger{}

func NewSlogLogger(l *slog.Logger) SlogLogger { return SlogLogger{L: l} }

func (s SlogLogger) Debug(msg string, f Fields) { s.log(slog.LevelDebug, msg, f) }
func (s SlogLogger) Info(msg string, f Fields)  { s.log(slog.LevelInfo, msg, f) }
func (s SlogLogger) Warn(msg string, f Fields)  { s.log(slog.LevelWarn, msg, f) }
func (s SlogLogger) Error(msg string, f Fields) { s.log(slog.LevelError, msg, f) }

func (s SlogLogger) log(lvl slog.Level, msg string, f Fields) {
	if len(f) == 0 {
		s.L.LogAttrs(context.Background(), lvl, msg)
		return
	}
	attrs := make([]slog.Attr, 0, len(f))
	for k, v := range f {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.L.LogAttrs(context.Background(), lvl, msg, attrs...)
}

// requestLogger tags every line with the owning request:
// "<name><<prefix><key[:6]>(<json(req)[:12]>)> msg".
type requestLogger struct {
	base   Logger
	prefix string
	fields Fields
}

func (l requestLogger) Debug(msg string, f Fields) { l.base.Debug(l.prefix+msg, l.with(f)) }
func (l requestLogger) Info(msg string, f Fields)  { l.base.Info(l.prefix+msg, l.with(f)) }
func (l requestLogger) Warn(msg string, f Fields)  { l.base.Warn(l.prefix+msg, l.with(f)) }
func (l requestLogger) Error(msg string, f Fields) { l.base.Error(l.prefix+msg, l.with(f)) }

func (l requestLogger) with(f Fields) Fields {
	if len(f) == 0 {
		return l.fields
	}
	out := make(Fields, len(l.fields)+len(f))
	maps.Copy(out, l.fields)
	maps.Copy(out, f)
	return out
}
